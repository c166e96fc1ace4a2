package responses

import "context"

// SuccessEnvelope wraps every 2xx payload.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the body of a failed request. RequestID lets support staff
// find the matching log line.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

type requestIDKey struct{}

// WithRequestID records the request id so error bodies can echo it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the id stored by WithRequestID, if any.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
