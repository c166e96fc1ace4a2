package middleware

import (
	stdErrors "errors"
	"net/http"
	"strings"

	"github.com/grambazaar/storefront-backend/api/responses"
	"github.com/grambazaar/storefront-backend/api/validators"
	pkgAuth "github.com/grambazaar/storefront-backend/pkg/auth"
	"github.com/grambazaar/storefront-backend/pkg/config"
	pkgerrors "github.com/grambazaar/storefront-backend/pkg/errors"
	"github.com/grambazaar/storefront-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the caller.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return authenticate(cfg, logg, true)
}

// OptionalAuth attaches the caller when a valid bearer token is sent and lets
// anonymous requests through. A present but invalid token is still rejected.
func OptionalAuth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return authenticate(cfg, logg, false)
}

func authenticate(cfg config.JWTConfig, logg *logger.Logger, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if strings.TrimSpace(header) == "" && !required {
				next.ServeHTTP(w, r)
				return
			}

			token, err := validators.BearerToken(header)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "missing credentials"))
				return
			}

			claims, err := pkgAuth.Verify(cfg, token)
			if err != nil {
				msg := "invalid token"
				if stdErrors.Is(err, pkgAuth.ErrExpired) {
					msg = "token expired"
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, msg))
				return
			}

			id := claims.Identity()
			ctx := WithPrincipal(r.Context(), Principal{
				UserID: id.UserID,
				Email:  id.Email,
				Role:   id.Role,
			})
			if logg != nil {
				ctx = logg.WithFields(logg.WithUserID(ctx, claims.UserID.String()), map[string]any{
					"user_role": string(claims.Role),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
