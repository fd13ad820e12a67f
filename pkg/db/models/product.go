package models

// Product is the persisted inventory row. The id is supplied by the caller;
// the database never generates it.
type Product struct {
	ID          int     `gorm:"column:id;primaryKey;autoIncrement:false"`
	Name        string  `gorm:"column:name"`
	Description string  `gorm:"column:description"`
	Price       float64 `gorm:"column:price"`
	Quantity    int     `gorm:"column:quantity"`
}

func (Product) TableName() string {
	return "products"
}
