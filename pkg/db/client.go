// Package db owns the postgres connection pool shared by every repository.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/grambazaar/storefront-backend/pkg/config"
	"github.com/grambazaar/storefront-backend/pkg/logger"
)

// Client wraps the shared GORM connection.
type Client struct {
	conn *gorm.DB
}

// Pinger exposes the health check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TxRunner runs fn inside a single database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

const connectBackoff = 500 * time.Millisecond

// New opens the pool and waits until postgres answers, retrying up to
// cfg.ConnectAttempts times so the API can start alongside the database.
func New(ctx context.Context, cfg config.DBConfig, logg *logger.Logger) (*Client, error) {
	if cfg.DSN == "" {
		return nil, errors.New("database DSN is required")
	}

	var glog gormlogger.Interface = gormlogger.Discard
	if logg != nil {
		glog = newQueryLogger(logg, cfg.SlowQueryThreshold)
	}
	conn, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:                 glog,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening db connection: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql db handle: %w", err)
	}
	configurePool(sqlDB, cfg)

	client := &Client{conn: conn}
	if err := client.waitReady(ctx, cfg.ConnectAttempts, logg); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return client, nil
}

// Wrap adapts an already opened connection, e.g. sqlite in tests.
func Wrap(conn *gorm.DB) *Client {
	return &Client{conn: conn}
}

func (c *Client) waitReady(ctx context.Context, attempts int, logg *logger.Logger) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 1; i <= attempts; i++ {
		if err = c.Ping(ctx); err == nil {
			if logg != nil {
				logg.Info(logg.WithField(ctx, "attempt", i), "db.connected")
			}
			return nil
		}
		if logg != nil {
			logg.Warn(logg.WithFields(ctx, map[string]any{"attempt": i, "error": err.Error()}), "db.ping_failed")
		}
		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(i) * connectBackoff):
		}
	}
	return fmt.Errorf("database unreachable after %d attempts: %w", attempts, err)
}

func configurePool(sqlDB *sql.DB, cfg config.DBConfig) {
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
}

// DB returns the underlying GORM connection.
func (c *Client) DB() *gorm.DB {
	return c.conn
}

// SQL returns the database/sql handle, used by goose.
func (c *Client) SQL() (*sql.DB, error) {
	return c.conn.DB()
}

func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (c *Client) Close() error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// WithTx runs fn in one transaction. An error or panic from fn rolls back;
// the panic is re-raised after the rollback.
func (c *Client) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return c.conn.WithContext(ctx).Transaction(fn)
}
