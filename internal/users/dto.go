package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/grambazaar/storefront-backend/pkg/db/models"
	"github.com/grambazaar/storefront-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Phone     string         `json:"phone,omitempty"`
	Role      enums.UserRole `json:"role"`
	IsActive  bool           `json:"isActive"`
	LastLogin *time.Time     `json:"lastLogin,omitempty"`
	JoinDate  time.Time      `json:"joinDate"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Role         enums.UserRole
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		IsActive:  u.IsActive,
		LastLogin: u.LastLoginAt,
		JoinDate:  u.CreatedAt,
	}
}

// FromModels converts rows in order.
func FromModels(rows []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if role == "" {
		role = enums.UserRoleCustomer
	}
	return &models.User{
		Name:         c.Name,
		Email:        c.Email,
		Phone:        c.Phone,
		PasswordHash: c.PasswordHash,
		Role:         role,
		IsActive:     true,
	}
}
