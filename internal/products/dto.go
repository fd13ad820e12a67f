package product

import "github.com/angelmondragon/inventory-backend/pkg/db/models"

// ProductDTO is the request/response representation of a product.
type ProductDTO struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

// FromModel copies a stored row into its transport shape.
func FromModel(m models.Product) ProductDTO {
	return ProductDTO{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Quantity:    m.Quantity,
	}
}

// ToModel copies the transport object into a row, field by field.
func (p ProductDTO) ToModel() *models.Product {
	return &models.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    p.Quantity,
	}
}

// DefaultSeed returns the products every process starts with.
func DefaultSeed() []ProductDTO {
	return []ProductDTO{
		{ID: 1, Name: "Laptop", Description: "A high-performance laptop", Price: 999.99, Quantity: 10},
		{ID: 2, Name: "Smartphone", Description: "A latest model smartphone", Price: 699.99, Quantity: 25},
		{ID: 3, Name: "Headphones", Description: "Noise-cancelling headphones", Price: 199.99, Quantity: 50},
		{ID: 4, Name: "Monitor", Description: "4K UHD Monitor", Price: 399.99, Quantity: 15},
	}
}
