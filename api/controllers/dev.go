package controllers

import (
	"context"
	"net/http"

	"github.com/grambazaar/storefront-backend/api/responses"
	"github.com/grambazaar/storefront-backend/internal/seed"
	"github.com/grambazaar/storefront-backend/pkg/logger"
)

// Seeder resets the development database to the demo catalogue.
type Seeder interface {
	Run(ctx context.Context) (*seed.Result, error)
}

func DevSeed(seeder Seeder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := seeder.Run(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
