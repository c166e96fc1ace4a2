package orders

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/grambazaar/storefront-backend/pkg/db/models"
	"github.com/grambazaar/storefront-backend/pkg/enums"
	"github.com/grambazaar/storefront-backend/pkg/geo"
	"github.com/grambazaar/storefront-backend/pkg/pricing"
)

// ItemInput is one requested cart line.
type ItemInput struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// AddressInput is the delivery destination supplied at checkout.
type AddressInput struct {
	FullAddress  string     `json:"fullAddress" validate:"required"`
	Phone        string     `json:"phone" validate:"required"`
	Instructions string     `json:"instructions,omitempty"`
	Email        string     `json:"email,omitempty" validate:"omitempty,email"`
	Location     *geo.Point `json:"location,omitempty"`
}

// CreateInput is the checkout payload. CustomerID is set from the bearer
// token, never from the body.
type CreateInput struct {
	ShopID         uuid.UUID            `json:"shopId" validate:"required"`
	Items          []ItemInput          `json:"items" validate:"required,min=1,dive"`
	DeliveryOption enums.DeliveryOption `json:"deliveryOption,omitempty"`
	Address        AddressInput         `json:"address"`
	PaymentMethod  enums.PaymentMethod  `json:"paymentMethod,omitempty"`
	CustomerEmail  string               `json:"customerEmail" validate:"omitempty,email"`
	CustomerName   string               `json:"customerName,omitempty"`
	CustomerID     *uuid.UUID           `json:"-"`
}

// StatusInput is the body of a status change request.
type StatusInput struct {
	Status string `json:"status" validate:"required"`
}

type ItemDTO struct {
	ProductID      uuid.UUID `json:"productId"`
	ProductName    string    `json:"productName"`
	Quantity       int       `json:"quantity"`
	UnitPricePaise int64     `json:"unitPricePaise"`
	UnitPrice      string    `json:"price"`
	LineTotalPaise int64     `json:"lineTotalPaise"`
}

type AddressDTO struct {
	FullAddress  string     `json:"fullAddress"`
	Phone        string     `json:"phone"`
	Instructions string     `json:"instructions,omitempty"`
	Email        string     `json:"email,omitempty"`
	Location     *geo.Point `json:"location,omitempty"`
}

// OrderDTO is the API shape of an order. Amounts are given both in paise and
// as rupee strings.
type OrderDTO struct {
	ID                  uuid.UUID            `json:"id"`
	CustomerID          *uuid.UUID           `json:"customerId"`
	CustomerEmail       string               `json:"customerEmail"`
	CustomerName        string               `json:"customerName"`
	ShopID              uuid.UUID            `json:"shopId"`
	Items               []ItemDTO            `json:"items"`
	TotalPaise          int64                `json:"totalPaise"`
	DeliveryChargePaise int64                `json:"deliveryChargePaise"`
	FinalPaise          int64                `json:"finalPaise"`
	TotalAmount         string               `json:"totalAmount"`
	DeliveryCharge      string               `json:"deliveryCharge"`
	FinalAmount         string               `json:"finalAmount"`
	DistanceKm          float64              `json:"distanceKm"`
	Status              enums.OrderStatus    `json:"status"`
	NextStatuses        []enums.OrderStatus  `json:"nextStatuses"`
	DeliveryOption      enums.DeliveryOption `json:"deliveryOption"`
	Address             AddressDTO           `json:"address"`
	PaymentMethod       enums.PaymentMethod  `json:"paymentMethod"`
	PaymentStatus       enums.PaymentStatus  `json:"paymentStatus"`
	CreatedAt           time.Time            `json:"createdAt"`
	UpdatedAt           time.Time            `json:"updatedAt"`
}

func rupees(paise int64) string {
	return pricing.Money(paise).Decimal().StringFixed(2)
}

func NewOrderDTO(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	items := make([]ItemDTO, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, ItemDTO{
			ProductID:      it.ProductID,
			ProductName:    it.ProductName,
			Quantity:       it.Quantity,
			UnitPricePaise: it.UnitPricePaise,
			UnitPrice:      rupees(it.UnitPricePaise),
			LineTotalPaise: it.LineTotalPaise(),
		})
	}
	var loc *geo.Point
	if o.Address.Location.Known() {
		loc = &geo.Point{Lat: *o.Address.Location.Lat, Lng: *o.Address.Location.Lng}
	}
	return &OrderDTO{
		ID:                  o.ID,
		CustomerID:          o.CustomerID,
		CustomerEmail:       o.CustomerEmail,
		CustomerName:        o.CustomerName,
		ShopID:              o.ShopID,
		Items:               items,
		TotalPaise:          o.TotalPaise,
		DeliveryChargePaise: o.DeliveryChargePaise,
		FinalPaise:          o.FinalPaise,
		TotalAmount:         rupees(o.TotalPaise),
		DeliveryCharge:      rupees(o.DeliveryChargePaise),
		FinalAmount:         rupees(o.FinalPaise),
		DistanceKm:          o.DistanceKm,
		Status:              o.Status,
		NextStatuses:        o.Status.NextStatuses(),
		DeliveryOption:      o.DeliveryOption,
		Address: AddressDTO{
			FullAddress:  o.Address.FullAddress,
			Phone:        o.Address.Phone,
			Instructions: o.Address.Instructions,
			Email:        o.Address.Email,
			Location:     loc,
		},
		PaymentMethod: o.PaymentMethod,
		PaymentStatus: o.PaymentStatus,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func NewOrderDTOs(rows []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewOrderDTO(&rows[i]))
	}
	return out
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
