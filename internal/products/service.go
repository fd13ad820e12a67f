package product

import (
	"context"
	"errors"

	"github.com/angelmondragon/inventory-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/inventory-backend/pkg/errors"
	"github.com/angelmondragon/inventory-backend/pkg/logger"
	"gorm.io/gorm"
)

// ErrProductNotFound is returned when the in-memory catalog has no entry for
// the requested id.
var ErrProductNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")

// Service exposes the product operations served over HTTP.
//
// Get, Update and Delete only reach the database when the id is present in
// the in-memory catalog. Create writes the database alone. A product created
// over HTTP is therefore stored but not reachable through Get/Update/Delete
// until the catalog knows its id, which it never does.
type Service interface {
	ListProducts(ctx context.Context) ([]ProductDTO, error)
	GetProduct(ctx context.Context, id int) (*ProductDTO, error)
	CreateProduct(ctx context.Context, input ProductDTO) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id int, input ProductDTO) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id int) error
}

type ServiceParams struct {
	Sessions Sessioner
	Catalog  *Catalog
	Logger   *logger.Logger
}

type service struct {
	sessions Sessioner
	catalog  *Catalog
	logg     *logger.Logger
}

func NewService(p ServiceParams) (Service, error) {
	if p.Sessions == nil {
		return nil, errors.New("sessions required")
	}
	if p.Catalog == nil {
		return nil, errors.New("catalog required")
	}
	logg := p.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{sessions: p.Sessions, catalog: p.Catalog, logg: logg}, nil
}

func (s *service) ListProducts(ctx context.Context) ([]ProductDTO, error) {
	var out []ProductDTO
	err := s.sessions.Session(ctx, func(tx *gorm.DB) error {
		rows, err := NewRepository(tx).List(ctx)
		if err != nil {
			return err
		}
		out = make([]ProductDTO, 0, len(rows))
		for _, row := range rows {
			out = append(out, FromModel(row))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetProduct returns nil with no error when the catalog knows the id but the
// database has no such row.
func (s *service) GetProduct(ctx context.Context, id int) (*ProductDTO, error) {
	if !s.catalog.Contains(id) {
		return nil, ErrProductNotFound
	}

	var out *ProductDTO
	err := s.sessions.Session(ctx, func(tx *gorm.DB) error {
		row, err := NewRepository(tx).FindByID(ctx, id)
		if err != nil || row == nil {
			return err
		}
		dto := FromModel(*row)
		out = &dto
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CreateProduct inserts without checking for an existing id; a duplicate
// surfaces as a database error. The catalog is not touched.
func (s *service) CreateProduct(ctx context.Context, input ProductDTO) (*ProductDTO, error) {
	ctx = s.logg.WithProductID(ctx, input.ID)
	row := input.ToModel()

	if err := s.sessions.Session(ctx, func(tx *gorm.DB) error {
		return NewRepository(tx).Create(ctx, row)
	}); err != nil {
		if db.IsUniqueViolation(err) {
			s.logg.Warn(ctx, "product.create.duplicate", err)
		}
		return nil, err
	}

	s.logg.Info(s.logg.WithField(ctx, "row", input), "product.created")
	out := input
	return &out, nil
}

// UpdateProduct replaces the catalog entry with input, then overwrites the
// stored row's non-id fields if the row exists. The catalog change stands even
// if the database write fails.
func (s *service) UpdateProduct(ctx context.Context, id int, input ProductDTO) (*ProductDTO, error) {
	if !s.catalog.Replace(id, input) {
		return nil, ErrProductNotFound
	}

	ctx = s.logg.WithProductID(ctx, id)
	err := s.sessions.Session(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		row, err := repo.FindByID(ctx, id)
		if err != nil || row == nil {
			return err
		}
		return repo.UpdateFields(ctx, row, input)
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(ctx, "product.updated")
	out := input
	return &out, nil
}

// DeleteProduct drops the catalog entry, then the stored row if it exists.
func (s *service) DeleteProduct(ctx context.Context, id int) error {
	if !s.catalog.Remove(id) {
		return ErrProductNotFound
	}

	ctx = s.logg.WithProductID(ctx, id)
	err := s.sessions.Session(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		row, err := repo.FindByID(ctx, id)
		if err != nil || row == nil {
			return err
		}
		return repo.Delete(ctx, row)
	})
	if err != nil {
		return err
	}

	s.logg.Info(ctx, "product.deleted")
	return nil
}
