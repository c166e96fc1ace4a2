package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grambazaar/storefront-backend/internal/inventory"
	"github.com/grambazaar/storefront-backend/internal/notifications"
	"github.com/grambazaar/storefront-backend/internal/repo"
	"github.com/grambazaar/storefront-backend/internal/shops"
	"github.com/grambazaar/storefront-backend/pkg/db/models"
	"github.com/grambazaar/storefront-backend/pkg/enums"
	pkgerrors "github.com/grambazaar/storefront-backend/pkg/errors"
	"github.com/grambazaar/storefront-backend/pkg/geo"
	"github.com/grambazaar/storefront-backend/pkg/logger"
	"github.com/grambazaar/storefront-backend/pkg/metrics"
	"github.com/grambazaar/storefront-backend/pkg/pricing"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Geocoder resolves a free-text address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*geo.Point, error)
}

// Service defines checkout and order lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*OrderDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*OrderDTO, error)
	ListByCustomer(ctx context.Context, email string) ([]OrderDTO, error)
}

// Deps wires the order service. Geocoder and Metrics are optional.
type Deps struct {
	Repo          *Repository
	Tx            txRunner
	Dispatcher    notifications.Dispatcher
	Geocoder      Geocoder
	Schedule      pricing.Schedule
	FallbackKm    float64
	FallbackEmail string
	Logger        *logger.Logger
	Metrics       *metrics.OrderMetrics
}

type service struct {
	repo          *Repository
	tx            txRunner
	dispatcher    notifications.Dispatcher
	geocoder      Geocoder
	schedule      pricing.Schedule
	fallbackKm    float64
	fallbackEmail string
	logg          *logger.Logger
	metrics       *metrics.OrderMetrics
}

func NewService(deps Deps) (Service, error) {
	if deps.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if deps.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if deps.Dispatcher == nil {
		return nil, fmt.Errorf("notification dispatcher required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if deps.FallbackKm <= 0 {
		deps.FallbackKm = geo.FallbackDistanceKm
	}
	if deps.Schedule == (pricing.Schedule{}) {
		deps.Schedule = pricing.DefaultSchedule
	}
	return &service{
		repo:          deps.Repo,
		tx:            deps.Tx,
		dispatcher:    deps.Dispatcher,
		geocoder:      deps.Geocoder,
		schedule:      deps.Schedule,
		fallbackKm:    deps.FallbackKm,
		fallbackEmail: deps.FallbackEmail,
		logg:          deps.Logger,
		metrics:       deps.Metrics,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*OrderDTO, error) {
	if err := normalizeCreate(&input); err != nil {
		s.metrics.IncRejected(string(pkgerrors.CodeOf(err)))
		return nil, err
	}
	ctx = s.logg.WithFields(ctx, map[string]any{
		"shop_id":        input.ShopID.String(),
		"customer_email": input.CustomerEmail,
	})

	// The shop and distance are resolved before the transaction opens so a
	// slow geocoder never pins a pooled connection.
	shop, err := shops.NewRepository(s.repo.DB(ctx)).FindByID(ctx, input.ShopID)
	if err != nil {
		err = repo.Translate(err, "Shop not found", "load shop")
		s.metrics.IncRejected(string(pkgerrors.CodeOf(err)))
		return nil, err
	}
	distance := s.resolveDistance(ctx, shop, input.Address)

	var order *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		reservations, err := inventory.Reserve(ctx, tx, toLines(input.Items))
		if err != nil {
			return err
		}
		for _, res := range reservations {
			if res.ShopID != shop.ID {
				return pkgerrors.Newf(pkgerrors.CodeValidation, "%s is not sold by %s", res.Name, shop.Name).
					WithDetails(map[string]any{"product_id": res.ProductID, "shop_id": shop.ID})
			}
		}

		quote := s.schedule.Quote(priceLines(reservations), input.DeliveryOption, distance)

		order = buildOrder(input, reservations, quote)
		if err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return repo.Translate(err, "Shop not found", "insert order")
		}
		return nil
	})
	if err != nil {
		s.metrics.IncRejected(string(pkgerrors.CodeOf(err)))
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "orders.create.rejected")
		return nil, err
	}

	ctx = s.logg.WithOrderID(ctx, order.ID.String())
	s.metrics.ObserveCreated(order.DeliveryOption.String(), order.FinalPaise)
	s.logg.Info(ctx, "orders.created")
	s.notifyCreated(ctx, order, shop)

	return NewOrderDTO(order), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repo.Translate(err, "Order not found", "load order")
	}
	return NewOrderDTO(order), nil
}

func (s *service) ListByCustomer(ctx context.Context, email string) ([]OrderDTO, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Email is required")
	}
	rows, err := s.repo.ListByCustomerEmail(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return NewOrderDTOs(rows), nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, raw string) (*OrderDTO, error) {
	next, err := enums.ParseOrderStatus(strings.TrimSpace(raw))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("Unknown order status %q", raw))
	}
	ctx = s.logg.WithOrderID(ctx, id.String())

	var order *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		current, err := txRepo.FindByID(ctx, id)
		if err != nil {
			return repo.Translate(err, "Order not found", "load order")
		}
		if !current.Status.CanTransitionTo(next) {
			return invalidTransition(current.Status, next)
		}

		extra := map[string]any{}
		if next == enums.OrderStatusDelivered {
			extra["payment_status"] = enums.PaymentStatusCompleted
		}
		changed, err := txRepo.CompareAndSetStatus(ctx, id, current.Status, next, extra)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		if !changed {
			return pkgerrors.New(pkgerrors.CodeConflict, "Order status changed concurrently, reload and retry")
		}

		if next == enums.OrderStatusCancelled {
			if err := inventory.Restore(ctx, tx, reservationsFromItems(current.Items)); err != nil {
				return err
			}
		}

		order, err = txRepo.FindByID(ctx, id)
		if err != nil {
			return repo.Translate(err, "Order not found", "reload order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncTransition(next.String())
	s.logg.Info(s.logg.WithField(ctx, "status", next.String()), "orders.status.updated")
	s.enqueue(ctx, notifications.SMS(order.Address.Phone, fmt.Sprintf("Order %s status: %s", order.ID, next)))

	return NewOrderDTO(order), nil
}

// resolveDistance prefers request coordinates, then the geocoder, then the
// fixed fallback. Geocoder failures never fail the order.
func (s *service) resolveDistance(ctx context.Context, shop *models.Shop, addr AddressInput) float64 {
	origin := shops.Location(shop)
	if origin == nil {
		return s.fallbackKm
	}
	destination := addr.Location
	if destination == nil && s.geocoder != nil {
		point, err := s.geocoder.Geocode(ctx, addr.FullAddress)
		switch {
		case err != nil:
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "orders.geocode.failed")
		case point != nil && !point.Valid():
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
				"lat": point.Lat,
				"lng": point.Lng,
			}), "orders.geocode.out_of_range")
		default:
			destination = point
		}
	}
	return geo.Estimate(origin, destination, s.fallbackKm)
}

func (s *service) notifyCreated(ctx context.Context, order *models.Order, shop *models.Shop) {
	final := pricing.Money(order.FinalPaise)

	if phone := firstNonEmpty(order.Address.Phone, shop.Phone); phone != "" {
		s.enqueue(ctx, notifications.SMS(phone, fmt.Sprintf("Order %s created. Total: %s", order.ID, final)))
	}
	if email := firstNonEmpty(order.Address.Email, shop.Email, s.fallbackEmail); email != "" {
		s.enqueue(ctx, notifications.Email(email, "Order Created",
			fmt.Sprintf("Order %s created at %s. Total: %s", order.ID, shop.Name, final)))
	}
}

func (s *service) enqueue(ctx context.Context, msg notifications.Message) {
	if msg.Recipient == "" {
		return
	}
	if err := s.dispatcher.Enqueue(ctx, msg); err != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"channel": msg.Channel,
			"error":   err.Error(),
		}), "orders.notification.not_enqueued")
	}
}

func normalizeCreate(in *CreateInput) error {
	in.CustomerEmail = normalizeEmail(in.CustomerEmail)
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.Address.FullAddress = strings.TrimSpace(in.Address.FullAddress)
	in.Address.Phone = strings.TrimSpace(in.Address.Phone)
	in.Address.Email = strings.TrimSpace(in.Address.Email)

	switch {
	case in.CustomerEmail == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "Customer email is required")
	case in.ShopID == uuid.Nil:
		return pkgerrors.New(pkgerrors.CodeValidation, "shopId is required")
	case len(in.Items) == 0:
		return pkgerrors.New(pkgerrors.CodeValidation, "At least one item is required")
	case in.Address.FullAddress == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "Delivery address is required")
	case in.Address.Phone == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "Phone number is required")
	case in.Address.Location != nil && !in.Address.Location.Valid():
		return pkgerrors.New(pkgerrors.CodeValidation, "Location must be a latitude in [-90,90] and a longitude in [-180,180]").
			WithDetails(map[string]any{"lat": in.Address.Location.Lat, "lng": in.Address.Location.Lng})
	}

	in.DeliveryOption = in.DeliveryOption.OrDefault()
	if !in.DeliveryOption.IsValid() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "Unknown delivery option %q", in.DeliveryOption)
	}
	in.PaymentMethod = in.PaymentMethod.OrDefault()
	if !in.PaymentMethod.IsValid() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "Unknown payment method %q", in.PaymentMethod)
	}
	return nil
}

func toLines(items []ItemInput) []inventory.Line {
	lines := make([]inventory.Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, inventory.Line{ProductID: it.ProductID, Qty: it.Quantity})
	}
	return lines
}

func priceLines(reservations []inventory.Reservation) []pricing.Line {
	lines := make([]pricing.Line, 0, len(reservations))
	for _, res := range reservations {
		lines = append(lines, pricing.Line{UnitPrice: res.UnitPrice, Quantity: res.Qty})
	}
	return lines
}

func reservationsFromItems(items []models.OrderItem) []inventory.Reservation {
	out := make([]inventory.Reservation, 0, len(items))
	for _, it := range items {
		out = append(out, inventory.Reservation{
			ProductID: it.ProductID,
			Name:      it.ProductName,
			Qty:       it.Quantity,
			UnitPrice: pricing.Money(it.UnitPricePaise),
		})
	}
	return out
}

func buildOrder(input CreateInput, reservations []inventory.Reservation, quote pricing.Quote) *models.Order {
	items := make([]models.OrderItem, 0, len(reservations))
	for _, res := range reservations {
		items = append(items, models.OrderItem{
			ProductID:      res.ProductID,
			ProductName:    res.Name,
			Quantity:       res.Qty,
			UnitPricePaise: res.UnitPrice.Paise(),
		})
	}
	order := &models.Order{
		CustomerID:          input.CustomerID,
		CustomerEmail:       input.CustomerEmail,
		CustomerName:        input.CustomerName,
		ShopID:              input.ShopID,
		Items:               items,
		TotalPaise:          quote.Subtotal.Paise(),
		DeliveryChargePaise: quote.DeliveryFee.Paise(),
		FinalPaise:          quote.Total.Paise(),
		DistanceKm:          quote.DistanceKm,
		Status:              enums.OrderStatusPending,
		DeliveryOption:      input.DeliveryOption,
		Address: models.OrderAddress{
			FullAddress:  input.Address.FullAddress,
			Phone:        input.Address.Phone,
			Instructions: input.Address.Instructions,
			Email:        input.Address.Email,
		},
		PaymentMethod: input.PaymentMethod,
		PaymentStatus: enums.PaymentStatusPending,
	}
	if loc := input.Address.Location; loc != nil {
		lat, lng := loc.Lat, loc.Lng
		order.Address.Location = models.GeoPoint{Lat: &lat, Lng: &lng}
	}
	return order
}

func invalidTransition(from, to enums.OrderStatus) error {
	return pkgerrors.Newf(pkgerrors.CodeInvalidTransition, "Cannot move order from %s to %s", from, to).
		WithDetails(map[string]any{
			"from":    from,
			"to":      to,
			"allowed": from.NextStatuses(),
		})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
