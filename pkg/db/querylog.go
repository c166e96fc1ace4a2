package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/grambazaar/storefront-backend/pkg/logger"
)

// queryLogger reports slow and failed statements through the service
// logger. Not-found lookups are expected and stay silent.
type queryLogger struct {
	logg *logger.Logger
	slow time.Duration
}

func newQueryLogger(logg *logger.Logger, slow time.Duration) *queryLogger {
	return &queryLogger{logg: logg, slow: slow}
}

func (q *queryLogger) LogMode(gormlogger.LogLevel) gormlogger.Interface { return q }

func (q *queryLogger) Info(context.Context, string, ...any) {}

func (q *queryLogger) Warn(context.Context, string, ...any) {}

func (q *queryLogger) Error(context.Context, string, ...any) {}

func (q *queryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	failed := err != nil && !errors.Is(err, gorm.ErrRecordNotFound)
	isSlow := q.slow > 0 && elapsed >= q.slow
	if !failed && !isSlow {
		return
	}

	sql, rows := fc()
	ctx = q.logg.WithFields(ctx, map[string]any{
		"sql":         sql,
		"rows":        rows,
		"duration_ms": elapsed.Milliseconds(),
	})
	if failed {
		q.logg.Error(ctx, "db.query_failed", err)
		return
	}
	q.logg.Warn(ctx, "db.query_slow")
}
