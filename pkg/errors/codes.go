package errors

import "net/http"

// Code is the stable, client-visible error identifier.
type Code string

const (
	CodeValidation        Code = "VALIDATION_ERROR"
	CodeUnauthorized      Code = "UNAUTHORIZED"
	CodeForbidden         Code = "FORBIDDEN"
	CodeNotFound          Code = "NOT_FOUND"
	CodeConflict          Code = "CONFLICT"
	CodeInsufficientStock Code = "INSUFFICIENT_STOCK"
	CodeInvalidTransition Code = "INVALID_TRANSITION"
	CodeIdempotency       Code = "IDEMPOTENCY_KEY_REUSED"
	CodeRateLimit         Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal          Code = "INTERNAL_ERROR"
	CodeDependency        Code = "DEPENDENCY_ERROR"
)

// Metadata describes how a code surfaces at the HTTP boundary.
type Metadata struct {
	HTTPStatus int
	Retryable  bool
	// PublicMessage is sent unless ClientMessage lets the typed message through.
	PublicMessage  string
	ClientMessage  bool
	DetailsAllowed bool
}

// client builds metadata for a 4xx code whose message is safe to show.
func client(status int, public string, details bool) Metadata {
	return Metadata{HTTPStatus: status, PublicMessage: public, ClientMessage: true, DetailsAllowed: details}
}

var metadataByCode = map[Code]Metadata{
	CodeValidation:        client(http.StatusBadRequest, "validation failed", true),
	CodeUnauthorized:      client(http.StatusUnauthorized, "authentication required", false),
	CodeForbidden:         client(http.StatusForbidden, "access denied", false),
	CodeNotFound:          client(http.StatusNotFound, "resource not found", false),
	CodeConflict:          client(http.StatusConflict, "conflict detected", false),
	CodeInsufficientStock: client(http.StatusConflict, "insufficient stock", true),
	CodeInvalidTransition: client(http.StatusUnprocessableEntity, "state transition disallowed", true),

	// Idempotency and rate-limit messages can echo keys or addresses, so
	// only the public text goes out.
	CodeIdempotency: {HTTPStatus: http.StatusConflict, PublicMessage: "idempotency key reused", DetailsAllowed: true},
	CodeRateLimit:   {HTTPStatus: http.StatusTooManyRequests, PublicMessage: "rate limit exceeded"},

	CodeInternal:   {HTTPStatus: http.StatusInternalServerError, Retryable: true, PublicMessage: "internal server error"},
	CodeDependency: {HTTPStatus: http.StatusServiceUnavailable, Retryable: true, PublicMessage: "dependency unavailable"},
}

// MetadataFor falls back to CodeInternal for unknown codes.
func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

// HTTPStatus is shorthand for MetadataFor(c).HTTPStatus.
func (c Code) HTTPStatus() int {
	return MetadataFor(c).HTTPStatus
}
