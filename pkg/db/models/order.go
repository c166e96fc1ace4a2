package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grambazaar/storefront-backend/pkg/enums"
)

// OrderAddress is the delivery destination captured on the order.
type OrderAddress struct {
	FullAddress  string   `gorm:"column:full_address;not null"`
	Phone        string   `gorm:"column:phone;not null"`
	Instructions string   `gorm:"column:instructions"`
	Email        string   `gorm:"column:email"`
	Location     GeoPoint `gorm:"embedded"`
}

// Order is the persisted result of checkout. Amounts are in paise and
// FinalPaise always equals TotalPaise plus DeliveryChargePaise.
type Order struct {
	ID                  uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID          *uuid.UUID           `gorm:"column:customer_id;type:uuid"`
	CustomerEmail       string               `gorm:"column:customer_email;not null;index"`
	CustomerName        string               `gorm:"column:customer_name"`
	ShopID              uuid.UUID            `gorm:"column:shop_id;type:uuid;not null;index"`
	Items               []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalPaise          int64                `gorm:"column:total_paise;not null"`
	DeliveryChargePaise int64                `gorm:"column:delivery_charge_paise;not null;default:0"`
	FinalPaise          int64                `gorm:"column:final_paise;not null"`
	DistanceKm          float64              `gorm:"column:distance_km;not null;default:0"`
	Status              enums.OrderStatus    `gorm:"column:status;not null"`
	DeliveryOption      enums.DeliveryOption `gorm:"column:delivery_option;not null"`
	Address             OrderAddress         `gorm:"embedded;embeddedPrefix:address_"`
	PaymentMethod       enums.PaymentMethod  `gorm:"column:payment_method;not null"`
	PaymentStatus       enums.PaymentStatus  `gorm:"column:payment_status;not null"`
	CreatedAt           time.Time            `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt           time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	ensureID(&o.ID)
	return nil
}
