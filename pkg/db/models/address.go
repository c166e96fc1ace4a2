package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grambazaar/storefront-backend/pkg/enums"
)

// Address is a saved delivery address. At most one per UserEmail is default.
type Address struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	UserEmail   string             `gorm:"column:user_email;not null;index"`
	FullAddress string             `gorm:"column:full_address;not null"`
	Phone       string             `gorm:"column:phone;not null"`
	Label       enums.AddressLabel `gorm:"column:label;not null;default:Home"`
	IsDefault   bool               `gorm:"column:is_default;not null;default:false"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (a *Address) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
