package controllers

import (
	"net/http"

	"github.com/angelmondragon/inventory-backend/api/responses"
	"github.com/angelmondragon/inventory-backend/api/validators"
	productsvc "github.com/angelmondragon/inventory-backend/internal/products"
	pkgerrors "github.com/angelmondragon/inventory-backend/pkg/errors"
	"github.com/angelmondragon/inventory-backend/pkg/logger"
)

const productIDParam = "id"

// productRequest requires every field to be present; zero values are fine.
// Extra keys are ignored. Values must already have their JSON type: a string
// id or a fractional quantity is rejected rather than coerced.
type productRequest struct {
	ID          *int     `json:"id" validate:"required"`
	Name        *string  `json:"name" validate:"required"`
	Description *string  `json:"description" validate:"required"`
	Price       *float64 `json:"price" validate:"required"`
	Quantity    *int     `json:"quantity" validate:"required"`
}

func (r productRequest) toDTO() productsvc.ProductDTO {
	return productsvc.ProductDTO{
		ID:          *r.ID,
		Name:        *r.Name,
		Description: *r.Description,
		Price:       *r.Price,
		Quantity:    *r.Quantity,
	}
}

func decodeProduct(r *http.Request) (productsvc.ProductDTO, error) {
	var payload productRequest
	if err := validators.DecodeJSONBody(r, &payload, validators.AllowUnknownFields()); err != nil {
		return productsvc.ProductDTO{}, err
	}
	return payload.toDTO(), nil
}

// writeServiceError renders catalog misses as a 200 {"error": ...} body and
// everything else through the typed error envelope.
func writeServiceError(w http.ResponseWriter, r *http.Request, logg *logger.Logger, err error) {
	if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		responses.WriteNotFound(w, pkgerrors.As(err).Message())
		return
	}
	responses.WriteError(r.Context(), logg, w, err)
}

// ListProducts returns every stored row.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := svc.ListProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

func GetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathInt(r, productIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, logg, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func CreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := decodeProduct(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func UpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathInt(r, productIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := decodeProduct(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), id, input)
		if err != nil {
			writeServiceError(w, r, logg, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func DeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathInt(r, productIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			writeServiceError(w, r, logg, err)
			return
		}
		responses.WriteMessage(w, "Product deleted")
	}
}
