package products

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/grambazaar/storefront-backend/pkg/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:products_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Shop{}, &models.Product{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, shopID uuid.UUID, name, category string, pricePaise int64, stock int) models.Product {
	t.Helper()
	p := models.Product{
		ShopID:     shopID,
		Name:       name,
		Category:   category,
		PricePaise: pricePaise,
		Stock:      stock,
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed product %s: %v", name, err)
	}
	return p
}
