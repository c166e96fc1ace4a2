package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/grambazaar/storefront-backend/api/responses"
	pkgerrors "github.com/grambazaar/storefront-backend/pkg/errors"
	"github.com/grambazaar/storefront-backend/pkg/logger"
	pkgredis "github.com/grambazaar/storefront-backend/pkg/redis"
)

const (
	idempotencyHeader = "Idempotency-Key"
	replayHeader      = "Idempotent-Replayed"
	maxIdempotencyKey = 128
	maxReplayBody     = 1 << 20
	// pendingTTL bounds how long a crashed request can block its key.
	pendingTTL = 2 * time.Minute
)

// idempotencyRecord is stored as JSON. A pending record marks a request
// that is still being served.
type idempotencyRecord struct {
	Pending     bool   `json:"pending,omitempty"`
	Status      int    `json:"status,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body,omitempty"`
	RequestHash string `json:"request_hash"`
}

var errStillRunning = pkgerrors.New(pkgerrors.CodeConflict, "request with this Idempotency-Key is still in progress")

// Idempotency replays the stored response when a request repeats its
// Idempotency-Key with the same body. Requests without the header pass
// through. Responses with a 5xx status release the key so the client can
// retry.
func Idempotency(store pkgredis.IdempotencyStore, ttl time.Duration, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil || ttl <= 0 {
			return next
		}
		g := idempotencyGuard{store: store, ttl: ttl, logg: logg}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(idempotencyHeader))
			if id == "" {
				next.ServeHTTP(w, r)
				return
			}
			if err := g.serve(w, r, id, next); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
			}
		})
	}
}

type idempotencyGuard struct {
	store pkgredis.IdempotencyStore
	ttl   time.Duration
	logg  *logger.Logger
}

func (g idempotencyGuard) serve(w http.ResponseWriter, r *http.Request, id string, next http.Handler) error {
	ctx := r.Context()
	if len(id) > maxIdempotencyKey {
		return pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key is too long")
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxReplayBody))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "request body is too large or unreadable")
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	hash := hashBody(body)
	key := g.store.IdempotencyKey(buildScope(r), id)

	claimed, err := g.claim(ctx, key, hash)
	if err != nil {
		return err
	}
	if !claimed {
		record, err := g.load(ctx, key, hash)
		if err != nil {
			return err
		}
		writeStoredResponse(w, record)
		return nil
	}

	var captured bytes.Buffer
	ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
	ww.Tee(&captured)
	next.ServeHTTP(ww, r)

	g.finish(context.WithoutCancel(ctx), key, idempotencyRecord{
		Status:      defaultStatus(ww.Status()),
		ContentType: ww.Header().Get("Content-Type"),
		Body:        captured.Bytes(),
		RequestHash: hash,
	})
	return nil
}

func (g idempotencyGuard) claim(ctx context.Context, key, hash string) (bool, error) {
	pending, err := json.Marshal(idempotencyRecord{Pending: true, RequestHash: hash})
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode idempotency claim")
	}
	ok, err := g.store.SetNX(ctx, key, string(pending), pendingTTL)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim idempotency key")
	}
	return ok, nil
}

// load returns the completed record for a repeated key.
func (g idempotencyGuard) load(ctx context.Context, key, hash string) (*idempotencyRecord, error) {
	stored, err := g.store.Get(ctx, key)
	switch {
	case errors.Is(err, redis.Nil):
		// the pending claim expired between SetNX and Get
		return nil, errStillRunning
	case err != nil:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency")
	}
	var record idempotencyRecord
	if err := json.Unmarshal([]byte(stored), &record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record")
	}
	if record.RequestHash != hash {
		return nil, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body")
	}
	if record.Pending {
		return nil, errStillRunning
	}
	return &record, nil
}

func (g idempotencyGuard) finish(ctx context.Context, key string, record idempotencyRecord) {
	if record.Status >= http.StatusInternalServerError {
		g.logFailure(ctx, "idempotency.release_failed", g.store.Del(ctx, key))
		return
	}
	payload, err := json.Marshal(record)
	if err != nil {
		g.logFailure(ctx, "idempotency.marshal_failed", err)
		return
	}
	g.logFailure(ctx, "idempotency.persist_failed", g.store.Set(ctx, key, string(payload), g.ttl))
}

func (g idempotencyGuard) logFailure(ctx context.Context, msg string, err error) {
	if g.logg != nil && err != nil {
		g.logg.Error(ctx, msg, err)
	}
}

// buildScope keys records per caller so two customers cannot collide on a key.
func buildScope(r *http.Request) string {
	return strings.Join([]string{UserIDFromContext(r.Context()), r.Method, r.URL.Path}, "|")
}

func writeStoredResponse(w http.ResponseWriter, record *idempotencyRecord) {
	if record.ContentType != "" {
		w.Header().Set("Content-Type", record.ContentType)
	}
	w.Header().Set(replayHeader, "true")
	w.WriteHeader(record.Status)
	_, _ = w.Write(record.Body)
}

func hashBody(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func defaultStatus(value int) int {
	if value == 0 {
		return http.StatusOK
	}
	return value
}
