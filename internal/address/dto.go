package address

import (
	"time"

	"github.com/google/uuid"

	"github.com/grambazaar/storefront-backend/pkg/db/models"
	"github.com/grambazaar/storefront-backend/pkg/enums"
)

// Draft is a new address.
type Draft struct {
	UserEmail   string             `json:"userEmail" validate:"required,email"`
	FullAddress string             `json:"fullAddress" validate:"required"`
	Phone       string             `json:"phone" validate:"required"`
	Label       enums.AddressLabel `json:"label,omitempty"`
	IsDefault   bool               `json:"isDefault"`
}

// Patch updates only the fields that are set.
type Patch struct {
	FullAddress *string             `json:"fullAddress,omitempty"`
	Phone       *string             `json:"phone,omitempty"`
	Label       *enums.AddressLabel `json:"label,omitempty"`
	IsDefault   *bool               `json:"isDefault,omitempty"`
}

type AddressDTO struct {
	ID          uuid.UUID          `json:"id"`
	UserEmail   string             `json:"userEmail"`
	FullAddress string             `json:"fullAddress"`
	Phone       string             `json:"phone"`
	Label       enums.AddressLabel `json:"label"`
	IsDefault   bool               `json:"isDefault"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

func NewAddressDTO(a *models.Address) *AddressDTO {
	if a == nil {
		return nil
	}
	return &AddressDTO{
		ID:          a.ID,
		UserEmail:   a.UserEmail,
		FullAddress: a.FullAddress,
		Phone:       a.Phone,
		Label:       a.Label,
		IsDefault:   a.IsDefault,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
