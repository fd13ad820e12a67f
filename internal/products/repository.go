package product

import (
	"context"
	"errors"

	"github.com/angelmondragon/inventory-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository wraps product persistence over a GORM handle.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// EnsureSchema creates the products table when it does not exist. An existing
// table is left untouched.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	migrator := r.db.WithContext(ctx).Migrator()
	if migrator.HasTable(&models.Product{}) {
		return nil
	}
	return migrator.CreateTable(&models.Product{})
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error
	return count, err
}

// List returns every row in whatever order the database yields them.
func (r *Repository) List(ctx context.Context) ([]models.Product, error) {
	rows := []models.Product{}
	err := r.db.WithContext(ctx).Find(&rows).Error
	return rows, err
}

// FindByID returns nil without error when no row matches.
func (r *Repository) FindByID(ctx context.Context, id int) (*models.Product, error) {
	var row models.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Create inserts the row as given, id included.
func (r *Repository) Create(ctx context.Context, row *models.Product) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// UpdateFields overwrites the four non-id columns of row.
func (r *Repository) UpdateFields(ctx context.Context, row *models.Product, src ProductDTO) error {
	row.Name = src.Name
	row.Description = src.Description
	row.Price = src.Price
	row.Quantity = src.Quantity
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"name":        row.Name,
			"description": row.Description,
			"price":       row.Price,
			"quantity":    row.Quantity,
		}).
		Error
}

func (r *Repository) Delete(ctx context.Context, row *models.Product) error {
	return r.db.WithContext(ctx).Where("id = ?", row.ID).Delete(&models.Product{}).Error
}
