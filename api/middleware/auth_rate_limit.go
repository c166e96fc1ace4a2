package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/grambazaar/storefront-backend/api/responses"
	pkgerrors "github.com/grambazaar/storefront-backend/pkg/errors"
	"github.com/grambazaar/storefront-backend/pkg/logger"
	pkgredis "github.com/grambazaar/storefront-backend/pkg/redis"
)

// maxAuthBody caps how much of a credentials body is buffered to find the email.
const maxAuthBody = 64 << 10

// AuthRateLimitPolicy throttles one auth endpoint by client IP and by the
// email in the JSON body. A zero limit disables that dimension.
type AuthRateLimitPolicy struct {
	name       string
	window     time.Duration
	ipLimit    int64
	emailLimit int64
}

func NewAuthRateLimitPolicy(name string, window time.Duration, ipLimit, emailLimit int) AuthRateLimitPolicy {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "auth"
	}
	return AuthRateLimitPolicy{name: name, window: window, ipLimit: int64(ipLimit), emailLimit: int64(emailLimit)}
}

func (p AuthRateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.emailLimit > 0)
}

// retryAfter is the Retry-After value in whole seconds, at least 1.
func (p AuthRateLimitPolicy) retryAfter() string {
	return strconv.FormatInt(max(int64(p.window/time.Second), 1), 10)
}

// bucket is one counter checked for a request.
type bucket struct {
	kind  string
	value string
	limit int64
}

// AuthRateLimit rejects the request with RATE_LIMIT_EXCEEDED once any of
// its buckets is over the limit. Emails are hashed before they reach redis.
func AuthRateLimit(policy AuthRateLimitPolicy, limiter pkgredis.WindowLimiter, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			buckets, err := policy.buckets(w, r)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			for _, b := range buckets {
				scope := "auth:" + policy.name + ":" + b.kind + ":" + b.value
				allowed, count, err := limiter.FixedWindowAllow(ctx, scope, b.limit, policy.window)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
					return
				}
				if !allowed {
					if logg != nil {
						logg.Warn(logg.WithFields(ctx, map[string]any{
							"policy":   policy.name,
							"bucket":   b.kind,
							"attempts": count,
							"limit":    b.limit,
						}), "auth.rate_limit.blocked")
					}
					w.Header().Set("Retry-After", policy.retryAfter())
					responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// buckets collects the counters for r. Reading the email restores the body
// for the handler.
func (p AuthRateLimitPolicy) buckets(w http.ResponseWriter, r *http.Request) ([]bucket, error) {
	var out []bucket
	if p.ipLimit > 0 {
		if ip := clientIP(r); ip != "" {
			out = append(out, bucket{kind: "ip", value: ip, limit: p.ipLimit})
		}
	}
	if p.emailLimit > 0 {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxAuthBody))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "request body is too large or unreadable")
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		if email := emailFromBody(body); email != "" {
			sum := sha256.Sum256([]byte(email))
			out = append(out, bucket{kind: "email", value: hex.EncodeToString(sum[:]), limit: p.emailLimit})
		}
	}
	return out, nil
}

// clientIP reads RemoteAddr. Proxy headers are honoured upstream by chi's
// RealIP middleware when the deployment trusts its proxy.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return strings.TrimSpace(r.RemoteAddr)
}

func emailFromBody(payload []byte) string {
	var body struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(payload, &body) != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(body.Email))
}
