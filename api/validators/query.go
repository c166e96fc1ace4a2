package validators

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	pkgerrors "github.com/grambazaar/storefront-backend/pkg/errors"
)

const maxQueryLen = 100

// QueryString returns the trimmed, length-capped query value.
func QueryString(r *http.Request, key string) string {
	return SanitizeString(r.URL.Query().Get(key), maxQueryLen)
}

// ParseOptionalUUIDQuery returns nil when the key is absent.
func ParseOptionalUUIDQuery(r *http.Request, key string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a uuid").WithDetails(map[string]any{"field": key})
	}
	return &id, nil
}

// ParseUUIDParam reads a chi URL parameter as a uuid.
func ParseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+name).WithDetails(map[string]any{"field": name})
	}
	return id, nil
}

// PathString reads a chi URL parameter, unescaping it when needed.
func PathString(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if unescaped, err := url.PathUnescape(raw); err == nil {
		raw = unescaped
	}
	return SanitizeString(raw, maxQueryLen)
}
