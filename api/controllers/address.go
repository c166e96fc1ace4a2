package controllers

import (
	"net/http"

	"github.com/grambazaar/storefront-backend/api/responses"
	"github.com/grambazaar/storefront-backend/api/validators"
	"github.com/grambazaar/storefront-backend/internal/address"
	"github.com/grambazaar/storefront-backend/pkg/logger"
)

func AddressList(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context(), validators.PathString(r, "email"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func AddressCreate(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var draft address.Draft
		if err := validators.DecodeJSONBody(r, &draft); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := svc.Create(r.Context(), draft)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

func AddressUpdate(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var patch address.Patch
		if err := validators.DecodeJSONBody(r, &patch); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		updated, err := svc.Update(r.Context(), id, patch)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

func AddressDelete(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"message": "Address deleted"})
	}
}
