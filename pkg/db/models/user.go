package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grambazaar/storefront-backend/pkg/enums"
)

type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Name         string         `gorm:"column:name;not null"`
	Email        string         `gorm:"column:email;not null;uniqueIndex"`
	Phone        string         `gorm:"column:phone"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Role         enums.UserRole `gorm:"column:role;not null;default:customer"`
	IsActive     bool           `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time     `gorm:"column:last_login_at"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	return nil
}
