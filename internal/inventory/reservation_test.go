package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/grambazaar/storefront-backend/pkg/db/models"
	pkgerrors "github.com/grambazaar/storefront-backend/pkg/errors"
	"github.com/grambazaar/storefront-backend/pkg/pricing"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:inventory_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}))
	return db
}

func seed(t *testing.T, db *gorm.DB, name string, pricePaise int64, stock int) models.Product {
	t.Helper()
	p := models.Product{ShopID: uuid.New(), Name: name, PricePaise: pricePaise, Stock: stock}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func stockOf(t *testing.T, db *gorm.DB, id uuid.UUID) (int, bool) {
	t.Helper()
	var p models.Product
	require.NoError(t, db.First(&p, "id = ?", id).Error)
	return p.Stock, p.IsAvailable
}

func TestReserveDecrementsAndSnapshotsPrice(t *testing.T) {
	db := newTestDB(t)
	rice := seed(t, db, "Rice", 6000, 5)
	oil := seed(t, db, "Mustard Oil", 18000, 3)

	var got []Reservation
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		got, err = Reserve(context.Background(), tx, []Line{
			{ProductID: rice.ID, Qty: 5},
			{ProductID: oil.ID, Qty: 1},
		})
		return err
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, pricing.Money(6000), got[0].UnitPrice)
	assert.Equal(t, "Mustard Oil", got[1].Name)

	stock, available := stockOf(t, db, rice.ID)
	assert.Equal(t, 0, stock)
	assert.False(t, available)

	stock, available = stockOf(t, db, oil.ID)
	assert.Equal(t, 2, stock)
	assert.True(t, available)
}

func TestReserveInsufficientStockLeavesStockUntouched(t *testing.T) {
	db := newTestDB(t)
	rice := seed(t, db, "Rice", 6000, 5)
	oil := seed(t, db, "Mustard Oil", 18000, 3)

	_, err := Reserve(context.Background(), db, []Line{
		{ProductID: oil.ID, Qty: 1},
		{ProductID: rice.ID, Qty: 6},
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, typed.Code())
	assert.Equal(t, "Insufficient stock for Rice", typed.Message())

	stock, _ := stockOf(t, db, rice.ID)
	assert.Equal(t, 5, stock)
	stock, _ = stockOf(t, db, oil.ID)
	assert.Equal(t, 3, stock, "validation failures happen before any write")
}

func TestReserveCountsRepeatedProductLines(t *testing.T) {
	db := newTestDB(t)
	rice := seed(t, db, "Rice", 6000, 4)

	_, err := Reserve(context.Background(), db, []Line{
		{ProductID: rice.ID, Qty: 3},
		{ProductID: rice.ID, Qty: 2},
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock))

	stock, _ := stockOf(t, db, rice.ID)
	assert.Equal(t, 4, stock)
}

func TestReserveKeepsRequestOrder(t *testing.T) {
	db := newTestDB(t)
	rice := seed(t, db, "Rice", 6000, 10)
	dal := seed(t, db, "Toor Dal", 14000, 10)

	got, err := Reserve(context.Background(), db, []Line{
		{ProductID: dal.ID, Qty: 1},
		{ProductID: rice.ID, Qty: 2},
		{ProductID: dal.ID, Qty: 3},
	})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []uuid.UUID{dal.ID, rice.ID, dal.ID}, []uuid.UUID{got[0].ProductID, got[1].ProductID, got[2].ProductID})
	assert.Equal(t, []int{1, 2, 3}, []int{got[0].Qty, got[1].Qty, got[2].Qty})

	stock, _ := stockOf(t, db, dal.ID)
	assert.Equal(t, 6, stock)
}

func TestReserveUnknownProductAmongKnown(t *testing.T) {
	db := newTestDB(t)
	rice := seed(t, db, "Rice", 6000, 4)
	missing := uuid.New()

	_, err := Reserve(context.Background(), db, []Line{
		{ProductID: rice.ID, Qty: 1},
		{ProductID: missing, Qty: 1},
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	details, ok := typed.Details().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, missing, details["product_id"])

	stock, _ := stockOf(t, db, rice.ID)
	assert.Equal(t, 4, stock)
}

func TestReserveUnknownProduct(t *testing.T) {
	db := newTestDB(t)
	missing := uuid.New()

	_, err := Reserve(context.Background(), db, []Line{{ProductID: missing, Qty: 1}})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Contains(t, typed.Message(), missing.String())
}

func TestReserveInvalidQty(t *testing.T) {
	db := newTestDB(t)
	rice := seed(t, db, "Rice", 6000, 4)

	for _, qty := range []int{0, -2} {
		_, err := Reserve(context.Background(), db, []Line{{ProductID: rice.ID, Qty: qty}})
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "qty=%d", qty)
	}
	_, err := Reserve(context.Background(), db, nil)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestReserveRollsBackEarlierLinesWhenGuardFails(t *testing.T) {
	db := newTestDB(t)
	rice := seed(t, db, "Rice", 6000, 2)
	oil := seed(t, db, "Mustard Oil", 18000, 1)

	err := db.Transaction(func(tx *gorm.DB) error {
		// Another order drains the oil between validation and commit.
		tx.Callback().Update().Before("gorm:update").Register("test:drain_oil", func(d *gorm.DB) {
			if d.Statement.Table != "products" {
				return
			}
			_ = d.Session(&gorm.Session{NewDB: true, SkipHooks: true}).
				Exec("UPDATE products SET stock = 0, is_available = false WHERE id = ?", oil.ID).Error
		})
		defer func() { _ = tx.Callback().Update().Remove("test:drain_oil") }()

		_, err := Reserve(context.Background(), tx, []Line{
			{ProductID: rice.ID, Qty: 1},
			{ProductID: oil.ID, Qty: 1},
		})
		return err
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock))

	stock, _ := stockOf(t, db, rice.ID)
	assert.Equal(t, 2, stock, "transaction rollback undoes the first decrement")
	stock, _ = stockOf(t, db, oil.ID)
	assert.Equal(t, 1, stock)
}

func TestRestoreReturnsUnits(t *testing.T) {
	db := newTestDB(t)
	rice := seed(t, db, "Rice", 6000, 2)

	reserved, err := Reserve(context.Background(), db, []Line{{ProductID: rice.ID, Qty: 2}})
	require.NoError(t, err)
	stock, available := stockOf(t, db, rice.ID)
	require.Equal(t, 0, stock)
	require.False(t, available)

	require.NoError(t, Restore(context.Background(), db, reserved))
	stock, available = stockOf(t, db, rice.ID)
	assert.Equal(t, 2, stock)
	assert.True(t, available)

	err = Restore(context.Background(), db, []Reservation{{ProductID: uuid.New(), Qty: 1}, {ProductID: uuid.New(), Qty: 1}})
	require.Error(t, err)
}
