package products

import (
	"time"

	"github.com/google/uuid"

	"github.com/grambazaar/storefront-backend/pkg/db/models"
	"github.com/grambazaar/storefront-backend/pkg/pricing"
)

// ProductDTO is the API shape of a product.
type ProductDTO struct {
	ID            uuid.UUID         `json:"id"`
	ShopID        uuid.UUID         `json:"shopId"`
	Name          string            `json:"name"`
	Description   string            `json:"description,omitempty"`
	Category      string            `json:"category,omitempty"`
	PricePaise    int64             `json:"pricePaise"`
	Price         string            `json:"price"`
	Stock         int               `json:"stock"`
	IsAvailable   bool              `json:"isAvailable"`
	Images        []string          `json:"images"`
	RegionalNames map[string]string `json:"regionalNames,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// NewProductDTO maps a product row to its API shape.
func NewProductDTO(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return &ProductDTO{
		ID:            p.ID,
		ShopID:        p.ShopID,
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category,
		PricePaise:    p.PricePaise,
		Price:         pricing.Money(p.PricePaise).Decimal().StringFixed(2),
		Stock:         p.Stock,
		IsAvailable:   p.IsAvailable,
		Images:        images,
		RegionalNames: p.RegionalNames,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// NewProductDTOs maps a slice of rows.
func NewProductDTOs(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewProductDTO(&rows[i]))
	}
	return out
}
