package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	pkgerrors "github.com/grambazaar/storefront-backend/pkg/errors"
	"github.com/grambazaar/storefront-backend/pkg/logger"
)

// encodeFailureBody is sent when a payload cannot be marshalled.
const encodeFailureBody = `{"error":{"code":"INTERNAL_ERROR","message":"Something went wrong"}}`

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, SuccessEnvelope{Data: data})
}

// WriteError renders err as the error envelope and logs it. Untyped errors
// are treated as INTERNAL_ERROR.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("error written without a cause")
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}
	meta := pkgerrors.MetadataFor(typed.Code())

	if logg != nil {
		logRejection(ctx, logg, err, meta.HTTPStatus)
	}
	writeJSON(w, meta.HTTPStatus, ErrorEnvelope{Error: apiError(ctx, typed, meta)})
}

func apiError(ctx context.Context, typed *pkgerrors.Error, meta pkgerrors.Metadata) APIError {
	out := APIError{
		Code:      string(typed.Code()),
		Message:   meta.PublicMessage,
		RequestID: RequestIDFromContext(ctx),
	}
	if meta.ClientMessage && typed.Message() != "" {
		out.Message = typed.Message()
	}
	if meta.DetailsAllowed && typed.Details() != nil {
		out.Details = typed.Details()
	}
	return out
}

// logRejection keeps 4xx at warn so error alerts only fire on server faults.
func logRejection(ctx context.Context, logg *logger.Logger, err error, status int) {
	fields := pkgerrors.Dump(err).Fields()
	fields["http_status"] = status
	ctx = logg.WithFields(ctx, fields)
	if status >= http.StatusInternalServerError {
		logg.Error(ctx, "request.error", err)
		return
	}
	logg.Warn(ctx, "request.rejected")
}

// writeJSON marshals before touching the response so a bad payload still
// yields a well-formed 500 instead of a truncated body.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(encodeFailureBody)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}
