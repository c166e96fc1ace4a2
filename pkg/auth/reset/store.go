package reset

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redislib "github.com/redis/go-redis/v9"

	redisclient "github.com/grambazaar/storefront-backend/pkg/redis"
	"github.com/grambazaar/storefront-backend/pkg/security"
)

const (
	tokenLength = 40
	// DefaultTTL bounds how long a reset link stays usable.
	DefaultTTL = time.Hour
)

var ErrInvalidToken = errors.New("invalid or expired reset token")

type tokenStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type tokenKeyer interface {
	PasswordResetKey(token string) string
}

// Store issues single-use password reset tokens mapped to a user email.
type Store struct {
	store tokenStore
	keyer tokenKeyer
	ttl   time.Duration
}

// NewStore constructs a reset token store backed by Redis.
func NewStore(client *redisclient.Client, ttl time.Duration) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return newStore(client, client, ttl)
}

func newStore(store tokenStore, keyer tokenKeyer, ttl time.Duration) (*Store, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("reset token ttl must be positive")
	}
	return &Store{store: store, keyer: keyer, ttl: ttl}, nil
}

// Issue creates a token for email and stores it until the TTL expires.
func (s *Store) Issue(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", fmt.Errorf("email is required")
	}
	token, err := security.RandomToken(tokenLength)
	if err != nil {
		return "", fmt.Errorf("generating reset token: %w", err)
	}
	if err := s.store.Set(ctx, s.keyer.PasswordResetKey(token), email, s.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// Consume returns the email bound to token and invalidates it.
func (s *Store) Consume(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrInvalidToken
	}
	key := s.keyer.PasswordResetKey(token)
	email, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return "", ErrInvalidToken
		}
		return "", err
	}
	if err := s.store.Del(ctx, key); err != nil {
		return "", err
	}
	return email, nil
}
