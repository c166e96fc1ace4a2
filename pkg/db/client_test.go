package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type stockRow struct {
	ID    int
	SKU   string
	Stock int
}

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:dbclient_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Discard,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&stockRow{}))
	return conn
}

func countRows(t *testing.T, conn *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, conn.Model(&stockRow{}).Count(&n).Error)
	return n
}

func TestWithTx(t *testing.T) {
	tests := []struct {
		name     string
		fn       func(tx *gorm.DB) error
		wantErr  bool
		wantRows int64
	}{
		{
			name:     "commit",
			fn:       func(tx *gorm.DB) error { return tx.Create(&stockRow{SKU: "rice-5kg", Stock: 4}).Error },
			wantRows: 1,
		},
		{
			name: "rollback on error",
			fn: func(tx *gorm.DB) error {
				if err := tx.Create(&stockRow{SKU: "dal-1kg", Stock: 2}).Error; err != nil {
					return err
				}
				return errors.New("insufficient stock")
			},
			wantErr:  true,
			wantRows: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := openSQLite(t)
			err := Wrap(conn).WithTx(context.Background(), tt.fn)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantRows, countRows(t, conn))
		})
	}
}

func TestWithTxRollsBackAndRepanics(t *testing.T) {
	conn := openSQLite(t)
	assert.PanicsWithValue(t, "kaboom", func() {
		_ = Wrap(conn).WithTx(context.Background(), func(tx *gorm.DB) error {
			require.NoError(t, tx.Create(&stockRow{SKU: "oil-1l"}).Error)
			panic("kaboom")
		})
	})
	assert.Zero(t, countRows(t, conn))
}

func TestWaitReady(t *testing.T) {
	client := Wrap(openSQLite(t))
	assert.NoError(t, client.waitReady(context.Background(), 3, nil))
}

func TestWaitReadyStopsOnClosedPool(t *testing.T) {
	client := Wrap(openSQLite(t))
	require.NoError(t, client.Close())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := client.waitReady(ctx, 5, nil)
	assert.Error(t, err)
}
