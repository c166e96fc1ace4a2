package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/grambazaar/storefront-backend/api/responses"
	"github.com/grambazaar/storefront-backend/api/validators"
	"github.com/grambazaar/storefront-backend/internal/products"
	"github.com/grambazaar/storefront-backend/pkg/logger"
)

type stockAdjustRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Delta     int       `json:"delta" validate:"ne=0"`
}

func ProductsList(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopID, err := validators.ParseOptionalUUIDQuery(r, "shopId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.List(r.Context(), products.ListFilter{
			ShopID:   shopID,
			Category: validators.QueryString(r, "category"),
			Query:    validators.QueryString(r, "q"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func ProductGet(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ProductAdjustStock applies a manual restock or write-off.
func ProductAdjustStock(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req stockAdjustRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.AdjustStock(r.Context(), req.ProductID, req.Delta)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}
