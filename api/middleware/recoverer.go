package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/grambazaar/storefront-backend/api/responses"
	pkgerrors "github.com/grambazaar/storefront-backend/pkg/errors"
	"github.com/grambazaar/storefront-backend/pkg/logger"
)

// Recoverer converts a handler panic into an INTERNAL_ERROR envelope.
// http.ErrAbortHandler is re-raised so net/http can drop the connection.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					handlePanic(w, r, logg, rec)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func handlePanic(w http.ResponseWriter, r *http.Request, logg *logger.Logger, rec any) {
	cause, ok := rec.(error)
	if ok && errors.Is(cause, http.ErrAbortHandler) {
		panic(rec)
	}
	if !ok {
		cause = fmt.Errorf("%v", rec)
	}
	responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, cause, "unexpected server error"))
}
