package shops

import (
	"time"

	"github.com/google/uuid"

	"github.com/grambazaar/storefront-backend/internal/products"
	"github.com/grambazaar/storefront-backend/pkg/db/models"
	"github.com/grambazaar/storefront-backend/pkg/geo"
)

type AddressDTO struct {
	Street   string     `json:"street,omitempty"`
	City     string     `json:"city,omitempty"`
	Pincode  string     `json:"pincode,omitempty"`
	Location *geo.Point `json:"location,omitempty"`
}

type HoursDTO struct {
	Open  string `json:"open,omitempty"`
	Close string `json:"close,omitempty"`
}

// ShopDTO is the API shape of a shop. Products is only set on detail reads.
type ShopDTO struct {
	ID               uuid.UUID             `json:"id"`
	Name             string                `json:"name"`
	Category         string                `json:"category"`
	Description      string                `json:"description,omitempty"`
	OwnerName        string                `json:"ownerName,omitempty"`
	Phone            string                `json:"phone,omitempty"`
	Email            string                `json:"email,omitempty"`
	Address          AddressDTO            `json:"address"`
	Rating           float64               `json:"rating"`
	DeliveryRadiusKm float64               `json:"deliveryRadius"`
	BusinessHours    HoursDTO              `json:"businessHours"`
	IsActive         bool                  `json:"isActive"`
	Products         []products.ProductDTO `json:"products,omitempty"`
	CreatedAt        time.Time             `json:"createdAt"`
}

// Location returns the shop coordinates when both are recorded.
func Location(shop *models.Shop) *geo.Point {
	if shop == nil || !shop.Address.Location.Known() {
		return nil
	}
	return &geo.Point{Lat: *shop.Address.Location.Lat, Lng: *shop.Address.Location.Lng}
}

func NewShopDTO(shop *models.Shop) *ShopDTO {
	if shop == nil {
		return nil
	}
	dto := &ShopDTO{
		ID:          shop.ID,
		Name:        shop.Name,
		Category:    shop.Category,
		Description: shop.Description,
		OwnerName:   shop.OwnerName,
		Phone:       shop.Phone,
		Email:       shop.Email,
		Address: AddressDTO{
			Street:   shop.Address.Street,
			City:     shop.Address.City,
			Pincode:  shop.Address.Pincode,
			Location: Location(shop),
		},
		Rating:           shop.Rating,
		DeliveryRadiusKm: shop.DeliveryRadiusKm,
		BusinessHours:    HoursDTO{Open: shop.Hours.Open, Close: shop.Hours.Close},
		IsActive:         shop.IsActive,
		CreatedAt:        shop.CreatedAt,
	}
	if len(shop.Products) > 0 {
		dto.Products = products.NewProductDTOs(shop.Products)
	}
	return dto
}
