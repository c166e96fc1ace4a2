package db

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/grambazaar/storefront-backend/pkg/logger"
)

func newBufferedQueryLogger(slow time.Duration) (*queryLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: buf})
	return newQueryLogger(logg, slow), buf
}

func stmt() (string, int64) { return "UPDATE products SET stock = stock - 2", 1 }

func TestQueryLoggerSkipsFastQueries(t *testing.T) {
	q, buf := newBufferedQueryLogger(time.Second)
	q.Trace(context.Background(), time.Now(), stmt, nil)
	assert.Empty(t, buf.String())
}

func TestQueryLoggerWarnsOnSlowQueries(t *testing.T) {
	q, buf := newBufferedQueryLogger(time.Millisecond)
	q.Trace(context.Background(), time.Now().Add(-50*time.Millisecond), stmt, nil)
	assert.Contains(t, buf.String(), "db.query_slow")
	assert.Contains(t, buf.String(), "UPDATE products")
}

func TestQueryLoggerIgnoresNotFound(t *testing.T) {
	q, buf := newBufferedQueryLogger(0)
	q.Trace(context.Background(), time.Now(), stmt, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())
}

func TestQueryLoggerReportsFailures(t *testing.T) {
	q, buf := newBufferedQueryLogger(0)
	q.Trace(context.Background(), time.Now(), stmt, errors.New("deadlock detected"))
	assert.Contains(t, buf.String(), "db.query_failed")
}

func TestWaitReadySucceedsOnHealthyConnection(t *testing.T) {
	client := Wrap(openSQLite(t))
	require.NoError(t, client.waitReady(context.Background(), 3, nil))
}
