package controllers

import (
	"net/http"

	"github.com/grambazaar/storefront-backend/api/responses"
	"github.com/grambazaar/storefront-backend/api/validators"
	"github.com/grambazaar/storefront-backend/internal/shops"
	"github.com/grambazaar/storefront-backend/pkg/logger"
)

// ShopsList returns active shops filtered by category and free-text query.
func ShopsList(svc shops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context(), shops.ListFilter{
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

// ShopGet returns a shop together with its catalog.
func ShopGet(svc shops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		shop, err := svc.Get(logg.WithShopID(r.Context(), id.String()), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, shop)
	}
}
