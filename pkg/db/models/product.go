package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is a shop listing. Stock never drops below zero and IsAvailable
// is rewritten alongside every stock change.
type Product struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	ShopID        uuid.UUID         `gorm:"column:shop_id;type:uuid;not null;index"`
	Name          string            `gorm:"column:name;not null"`
	Description   string            `gorm:"column:description"`
	Category      string            `gorm:"column:category;index"`
	PricePaise    int64             `gorm:"column:price_paise;not null;check:chk_products_price_nonnegative,price_paise >= 0"`
	Stock         int               `gorm:"column:stock;not null;default:0;check:chk_products_stock_nonnegative,stock >= 0"`
	IsAvailable   bool              `gorm:"column:is_available;not null;default:false"`
	Images        []string          `gorm:"column:images;type:jsonb;serializer:json"`
	RegionalNames map[string]string `gorm:"column:regional_names;type:jsonb;serializer:json"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	p.IsAvailable = p.Stock > 0
	return nil
}
