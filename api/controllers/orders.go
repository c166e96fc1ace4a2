package controllers

import (
	"net/http"

	"github.com/grambazaar/storefront-backend/api/middleware"
	"github.com/grambazaar/storefront-backend/api/responses"
	"github.com/grambazaar/storefront-backend/api/validators"
	"github.com/grambazaar/storefront-backend/internal/orders"
	"github.com/grambazaar/storefront-backend/pkg/logger"
)

// OrderCreate places an order. A signed-in caller is recorded as the
// customer and supplies the email when the body omits it.
func OrderCreate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input orders.CreateInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if principal, ok := middleware.PrincipalFromContext(r.Context()); ok {
			id := principal.UserID
			input.CustomerID = &id
			if input.CustomerEmail == "" {
				input.CustomerEmail = principal.Email
			}
		}

		order, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

func OrderGet(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Get(logg.WithOrderID(r.Context(), id.String()), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// OrdersByCustomer lists a customer's orders, newest first.
func OrdersByCustomer(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := validators.PathString(r, "email")
		list, err := svc.ListByCustomer(r.Context(), email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func OrderUpdateStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var input orders.StatusInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := logg.WithOrderID(r.Context(), id.String())
		order, err := svc.UpdateStatus(ctx, id, input.Status)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
