package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderItem snapshots a product line at checkout time.
type OrderItem struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	OrderID        uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	ProductName    string    `gorm:"column:product_name;not null"`
	Quantity       int       `gorm:"column:quantity;not null"`
	UnitPricePaise int64     `gorm:"column:unit_price_paise;not null"`
}

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

// LineTotalPaise is the unit price times quantity.
func (i OrderItem) LineTotalPaise() int64 {
	return i.UnitPricePaise * int64(i.Quantity)
}
