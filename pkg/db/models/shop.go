package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShopAddress is the storefront location used as the delivery origin.
type ShopAddress struct {
	Street   string   `gorm:"column:street"`
	City     string   `gorm:"column:city"`
	Pincode  string   `gorm:"column:pincode"`
	Location GeoPoint `gorm:"embedded"`
}

type BusinessHours struct {
	Open  string `gorm:"column:open"`
	Close string `gorm:"column:close"`
}

// Shop is a local seller. Products reference it by ShopID.
type Shop struct {
	ID               uuid.UUID     `gorm:"column:id;type:uuid;primaryKey"`
	Name             string        `gorm:"column:name;not null"`
	Category         string        `gorm:"column:category;not null"`
	Description      string        `gorm:"column:description"`
	OwnerName        string        `gorm:"column:owner_name"`
	Phone            string        `gorm:"column:phone"`
	Email            string        `gorm:"column:email"`
	Address          ShopAddress   `gorm:"embedded;embeddedPrefix:address_"`
	Rating           float64       `gorm:"column:rating;not null;default:4"`
	DeliveryRadiusKm float64       `gorm:"column:delivery_radius_km;not null;default:5"`
	Hours            BusinessHours `gorm:"embedded;embeddedPrefix:hours_"`
	IsActive         bool          `gorm:"column:is_active;not null;default:true"`
	Products         []Product     `gorm:"foreignKey:ShopID"`
	CreatedAt        time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}

func (s *Shop) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}
