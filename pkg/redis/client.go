// Package redis holds the storefront's redis-backed primitives: idempotency
// records, fixed-window rate limits, reset tokens and the notification queue.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/grambazaar/storefront-backend/pkg/config"
	"github.com/grambazaar/storefront-backend/pkg/logger"
)

// ErrNotInitialized is returned when a zero Client is used.
var ErrNotInitialized = errors.New("redis client not initialized")

// cmdable is the slice of redis.Cmdable the client needs. Tests substitute it.
type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	SetNX(context.Context, string, any, time.Duration) *redis.BoolCmd
	Incr(context.Context, string) *redis.IntCmd
	Expire(context.Context, string, time.Duration) *redis.BoolCmd
	TTL(context.Context, string) *redis.DurationCmd
	Del(context.Context, ...string) *redis.IntCmd
	LPush(context.Context, string, ...any) *redis.IntCmd
	BRPop(context.Context, time.Duration, ...string) *redis.StringSliceCmd
	LLen(context.Context, string) *redis.IntCmd
}

type Pinger interface {
	Ping(context.Context) error
}

// IdempotencyStore is what the idempotency middleware needs.
type IdempotencyStore interface {
	Get(context.Context, string) (string, error)
	Set(context.Context, string, any, time.Duration) error
	SetNX(context.Context, string, any, time.Duration) (bool, error)
	IdempotencyKey(scope, id string) string
	Del(context.Context, ...string) error
}

// WindowLimiter counts hits against a fixed window.
type WindowLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// Queue is a FIFO list of opaque payloads.
type Queue interface {
	Push(ctx context.Context, queue string, payload []byte) error
	Pop(ctx context.Context, queue string, timeout time.Duration) ([]byte, error)
}

type Client struct {
	Keyspace
	store cmdable
	raw   *redis.Client
}

var (
	_ Pinger           = (*Client)(nil)
	_ IdempotencyStore = (*Client)(nil)
	_ WindowLimiter    = (*Client)(nil)
	_ Queue            = (*Client)(nil)
)

// New dials redis and fails fast when the first ping does not succeed.
func New(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*Client, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opts.Addr, err)
	}
	if logg != nil {
		logg.Info(logg.WithFields(ctx, map[string]any{"addr": opts.Addr, "db": opts.DB}), "redis.connected")
	}
	return &Client{Keyspace: NewKeyspace(cfg.KeyPrefix), store: raw, raw: raw}, nil
}

// optionsFromConfig prefers URL; explicit pool and timeout settings fill
// whatever the URL leaves unset.
func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	var opts *redis.Options
	switch {
	case cfg.URL != "":
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = parsed
	case cfg.Address != "":
		opts = &redis.Options{Addr: cfg.Address, Password: cfg.Password, DB: cfg.DB}
	default:
		return nil, errors.New("redis url or address is required")
	}

	fillInt(&opts.DB, cfg.DB)
	fillInt(&opts.PoolSize, cfg.PoolSize)
	fillInt(&opts.MinIdleConns, cfg.MinIdleConns)
	fillDuration(&opts.DialTimeout, cfg.DialTimeout)
	fillDuration(&opts.ReadTimeout, cfg.ReadTimeout)
	fillDuration(&opts.WriteTimeout, cfg.WriteTimeout)
	return opts, nil
}

func fillInt(dst *int, v int) {
	if *dst == 0 {
		*dst = v
	}
}

func fillDuration(dst *time.Duration, v time.Duration) {
	if *dst == 0 {
		*dst = v
	}
}

func (c *Client) cmd() (cmdable, error) {
	if c == nil || c.store == nil {
		return nil, ErrNotInitialized
	}
	return c.store, nil
}

func (c *Client) Ping(ctx context.Context) error {
	s, err := c.cmd()
	if err != nil {
		return err
	}
	return s.Ping(ctx).Err()
}

func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	s, err := c.cmd()
	if err != nil {
		return err
	}
	return s.Set(ctx, key, value, ttl).Err()
}

// Get returns redis.Nil for a missing key.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	s, err := c.cmd()
	if err != nil {
		return "", err
	}
	return s.Get(ctx, key).Result()
}

func (c *Client) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	s, err := c.cmd()
	if err != nil {
		return false, err
	}
	return s.SetNX(ctx, key, value, ttl).Result()
}

func (c *Client) Del(ctx context.Context, keys ...string) error {
	s, err := c.cmd()
	if err != nil {
		return err
	}
	return s.Del(ctx, keys...).Err()
}

// FixedWindowAllow counts one hit for scope and reports whether the count is
// still within limit. The window starts at the first hit.
func (c *Client) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	s, err := c.cmd()
	if err != nil {
		return false, 0, err
	}
	key := c.RateLimitKey(scope)
	count, err := s.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("incr %s: %w", key, err)
	}
	if window > 0 {
		if err := ensureExpiry(ctx, s, key, count, window); err != nil {
			return false, count, err
		}
	}
	return count <= limit, count, nil
}

// ensureExpiry sets the window on the first hit. Later hits repair a key
// left without a TTL, which happens if a process died between INCR and EXPIRE.
func ensureExpiry(ctx context.Context, s cmdable, key string, count int64, window time.Duration) error {
	if count > 1 {
		ttl, err := s.TTL(ctx, key).Result()
		if err != nil || ttl != -1 {
			return err
		}
	}
	if err := s.Expire(ctx, key, window).Err(); err != nil {
		return fmt.Errorf("expire %s: %w", key, err)
	}
	return nil
}

// Push appends payload to the named queue (LPUSH).
func (c *Client) Push(ctx context.Context, queue string, payload []byte) error {
	s, err := c.cmd()
	if err != nil {
		return err
	}
	if err := s.LPush(ctx, c.QueueKey(queue), payload).Err(); err != nil {
		return fmt.Errorf("push %s: %w", queue, err)
	}
	return nil
}

// Pop blocks up to timeout for the oldest payload (BRPOP). An empty queue
// yields (nil, nil).
func (c *Client) Pop(ctx context.Context, queue string, timeout time.Duration) ([]byte, error) {
	s, err := c.cmd()
	if err != nil {
		return nil, err
	}
	result, err := s.BRPop(ctx, timeout, c.QueueKey(queue)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("pop %s: %w", queue, err)
	case len(result) < 2:
		return nil, nil
	}
	return []byte(result[1]), nil
}

// Len reports how many payloads wait on the named queue.
func (c *Client) Len(ctx context.Context, queue string) (int64, error) {
	s, err := c.cmd()
	if err != nil {
		return 0, err
	}
	return s.LLen(ctx, c.QueueKey(queue)).Result()
}

func (c *Client) Close() error {
	if c == nil || c.raw == nil {
		return nil
	}
	return c.raw.Close()
}
