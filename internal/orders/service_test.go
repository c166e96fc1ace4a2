package orders

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/grambazaar/storefront-backend/pkg/db/models"
	"github.com/grambazaar/storefront-backend/pkg/enums"
	pkgerrors "github.com/grambazaar/storefront-backend/pkg/errors"
	"github.com/grambazaar/storefront-backend/pkg/geo"
	"github.com/grambazaar/storefront-backend/pkg/logger"
)

func TestCreateHomeDeliveryUsesFallbackDistance(t *testing.T) {
	env := newTestEnv(t)
	shop := env.seedShop(t, nil)
	atta := env.seedProduct(t, shop.ID, "Atta 5kg", 12000, 10)

	order, err := env.svc.Create(context.Background(), checkoutInput(shop.ID, ItemInput{ProductID: atta.ID, Quantity: 2}))
	require.NoError(t, err)

	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.Equal(t, enums.DeliveryOptionHome, order.DeliveryOption)
	assert.Equal(t, enums.PaymentMethodCOD, order.PaymentMethod)
	assert.Equal(t, enums.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, 3.0, order.DistanceKm)
	assert.Equal(t, int64(24000), order.TotalPaise)
	assert.Equal(t, int64(2500), order.DeliveryChargePaise)
	assert.Equal(t, int64(26500), order.FinalPaise)
	assert.Equal(t, "265.00", order.FinalAmount)
	assert.Equal(t, "asha@example.com", order.CustomerEmail)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Atta 5kg", order.Items[0].ProductName)
	assert.Equal(t, int64(12000), order.Items[0].UnitPricePaise)

	assert.Equal(t, 8, env.product(t, atta.ID).Stock)

	sent := env.dispatcher.sent()
	require.Len(t, sent, 2)
	assert.Equal(t, enums.NotificationChannelSMS, sent[0].Channel)
	assert.Equal(t, "+919800000001", sent[0].Recipient)
	assert.Contains(t, sent[0].Body, "₹265.00")
	assert.Equal(t, enums.NotificationChannelEmail, sent[1].Channel)
	assert.Equal(t, "no-reply@grambazaar.in", sent[1].Recipient, "no address or shop email falls back")
	assert.Equal(t, "Order Created", sent[1].Subject)
}

func TestCreateTotalsInvariant(t *testing.T) {
	env := newTestEnv(t)
	shop := env.seedShop(t, &connaughtPlace)
	rice := env.seedProduct(t, shop.ID, "Basmati Rice", 9950, 10)
	dal := env.seedProduct(t, shop.ID, "Toor Dal", 14525, 10)

	input := checkoutInput(shop.ID,
		ItemInput{ProductID: rice.ID, Quantity: 1},
		ItemInput{ProductID: dal.ID, Quantity: 3},
	)
	input.Address.Location = &noidaSector18
	order, err := env.svc.Create(context.Background(), input)
	require.NoError(t, err)

	var sum int64
	for _, it := range order.Items {
		sum += it.LineTotalPaise
	}
	assert.Equal(t, sum, order.TotalPaise)
	assert.Equal(t, order.TotalPaise+order.DeliveryChargePaise, order.FinalPaise)
	assert.Equal(t, int64(53525), order.TotalPaise)
	assert.Equal(t, int64(0), order.DeliveryChargePaise, "free delivery from ₹500")
	assert.Equal(t, 20.0, order.DistanceKm)

	var stored models.Order
	require.NoError(t, env.db.Preload("Items").First(&stored, "id = ?", order.ID).Error)
	assert.Equal(t, order.FinalPaise, stored.FinalPaise)
	assert.Len(t, stored.Items, 2)
}

func TestCreatePickupHasNoDeliveryFee(t *testing.T) {
	env := newTestEnv(t)
	shop := env.seedShop(t, nil)
	milk := env.seedProduct(t, shop.ID, "Milk 1L", 6000, 4)

	input := checkoutInput(shop.ID, ItemInput{ProductID: milk.ID, Quantity: 1})
	input.DeliveryOption = enums.DeliveryOptionPickup
	input.PaymentMethod = enums.PaymentMethodUPI
	order, err := env.svc.Create(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, int64(0), order.DeliveryChargePaise)
	assert.Equal(t, int64(6000), order.FinalPaise)
	assert.Equal(t, enums.PaymentMethodUPI, order.PaymentMethod)
}

func TestCreateDistanceResolution(t *testing.T) {
	t.Run("request coordinates win", func(t *testing.T) {
		geocoder := &stubGeocoder{point: &noidaSector18}
		env := newTestEnv(t, func(d *Deps) { d.Geocoder = geocoder })
		shop := env.seedShop(t, &connaughtPlace)
		p := env.seedProduct(t, shop.ID, "Sugar", 5000, 5)

		input := checkoutInput(shop.ID, ItemInput{ProductID: p.ID, Quantity: 1})
		input.Address.Location = &indiaGate
		order, err := env.svc.Create(context.Background(), input)
		require.NoError(t, err)

		assert.Equal(t, 2.0, order.DistanceKm)
		assert.Equal(t, int64(2000), order.DeliveryChargePaise)
		assert.Zero(t, geocoder.calls)
	})

	t.Run("geocoder fills missing coordinates", func(t *testing.T) {
		geocoder := &stubGeocoder{point: &noidaSector18}
		env := newTestEnv(t, func(d *Deps) { d.Geocoder = geocoder })
		shop := env.seedShop(t, &connaughtPlace)
		p := env.seedProduct(t, shop.ID, "Sugar", 5000, 5)

		order, err := env.svc.Create(context.Background(), checkoutInput(shop.ID, ItemInput{ProductID: p.ID, Quantity: 1}))
		require.NoError(t, err)

		assert.Equal(t, 1, geocoder.calls)
		assert.Equal(t, 20.0, order.DistanceKm)
		assert.Equal(t, int64(11000), order.DeliveryChargePaise)
	})

	t.Run("geocoder failure falls back", func(t *testing.T) {
		geocoder := &stubGeocoder{err: errors.New("quota exceeded")}
		env := newTestEnv(t, func(d *Deps) { d.Geocoder = geocoder })
		shop := env.seedShop(t, &connaughtPlace)
		p := env.seedProduct(t, shop.ID, "Sugar", 5000, 5)

		order, err := env.svc.Create(context.Background(), checkoutInput(shop.ID, ItemInput{ProductID: p.ID, Quantity: 1}))
		require.NoError(t, err)
		assert.Equal(t, geo.FallbackDistanceKm, order.DistanceKm)
	})

	t.Run("out of range geocoder result falls back", func(t *testing.T) {
		geocoder := &stubGeocoder{point: &geo.Point{Lat: 100, Lng: 0}}
		env := newTestEnv(t, func(d *Deps) { d.Geocoder = geocoder })
		shop := env.seedShop(t, &geo.Point{Lat: 80, Lng: 180})
		p := env.seedProduct(t, shop.ID, "Sugar", 5000, 5)

		order, err := env.svc.Create(context.Background(), checkoutInput(shop.ID, ItemInput{ProductID: p.ID, Quantity: 1}))
		require.NoError(t, err)
		assert.Equal(t, 1, geocoder.calls)
		assert.Equal(t, geo.FallbackDistanceKm, order.DistanceKm)
	})

	t.Run("shop without coordinates skips geocoder", func(t *testing.T) {
		geocoder := &stubGeocoder{point: &noidaSector18}
		env := newTestEnv(t, func(d *Deps) { d.Geocoder = geocoder })
		shop := env.seedShop(t, nil)
		p := env.seedProduct(t, shop.ID, "Sugar", 5000, 5)

		order, err := env.svc.Create(context.Background(), checkoutInput(shop.ID, ItemInput{ProductID: p.ID, Quantity: 1}))
		require.NoError(t, err)
		assert.Zero(t, geocoder.calls)
		assert.Equal(t, 3.0, order.DistanceKm)
	})
}

func TestCreateRejectsOutOfRangeLocation(t *testing.T) {
	env := newTestEnv(t)
	shop := env.seedShop(t, &geo.Point{Lat: 80, Lng: 180})
	p := env.seedProduct(t, shop.ID, "Sugar", 5000, 5)

	for _, loc := range []geo.Point{{Lat: 100, Lng: 0}, {Lat: 0, Lng: 181}, {Lat: -91, Lng: 10}} {
		input := checkoutInput(shop.ID, ItemInput{ProductID: p.ID, Quantity: 1})
		input.Address.Location = &loc
		_, err := env.svc.Create(context.Background(), input)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "location %+v: %v", loc, err)
	}
	assert.Equal(t, 5, env.product(t, p.ID).Stock)
	assert.Zero(t, env.orderCount(t))
}

func TestCreateGeocodesOutsideTransaction(t *testing.T) {
	geocoder := &stubGeocoder{point: &noidaSector18}
	env := newTestEnv(t, func(d *Deps) { d.Geocoder = geocoder })
	sqlDB, err := env.db.DB()
	require.NoError(t, err)
	inUse := -1
	geocoder.onCall = func() { inUse = sqlDB.Stats().InUse }

	shop := env.seedShop(t, &connaughtPlace)
	p := env.seedProduct(t, shop.ID, "Sugar", 5000, 5)

	_, err = env.svc.Create(context.Background(), checkoutInput(shop.ID, ItemInput{ProductID: p.ID, Quantity: 1}))
	require.NoError(t, err)
	assert.Equal(t, 1, geocoder.calls)
	assert.Equal(t, 0, inUse, "no connection is held while geocoding")
}

func TestCreateExactStockMarksUnavailable(t *testing.T) {
	env := newTestEnv(t)
	shop := env.seedShop(t, nil)
	ghee := env.seedProduct(t, shop.ID, "Ghee", 55000, 5)

	_, err := env.svc.Create(context.Background(), checkoutInput(shop.ID, ItemInput{ProductID: ghee.ID, Quantity: 5}))
	require.NoError(t, err)

	got := env.product(t, ghee.ID)
	assert.Equal(t, 0, got.Stock)
	assert.False(t, got.IsAvailable)
}

func TestCreateInsufficientStockIsAllOrNothing(t *testing.T) {
	env := newTestEnv(t)
	shop := env.seedShop(t, nil)
	tea := env.seedProduct(t, shop.ID, "Tea", 25000, 5)
	salt := env.seedProduct(t, shop.ID, "Salt", 2000, 1)

	_, err := env.svc.Create(context.Background(), checkoutInput(shop.ID,
		ItemInput{ProductID: tea.ID, Quantity: 5},
		ItemInput{ProductID: salt.ID, Quantity: 2},
	))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock))
	assert.Equal(t, "Insufficient stock for Salt", pkgerrors.As(err).Message())

	assert.Equal(t, 5, env.product(t, tea.ID).Stock)
	assert.Equal(t, 1, env.product(t, salt.ID).Stock)
	assert.Zero(t, env.orderCount(t))
	assert.Empty(t, env.dispatcher.sent())
}

func TestCreateRejectsOverOrder(t *testing.T) {
	env := newTestEnv(t)
	shop := env.seedShop(t, nil)
	oil := env.seedProduct(t, shop.ID, "Oil", 18000, 5)

	_, err := env.svc.Create(context.Background(), checkoutInput(shop.ID, ItemInput{ProductID: oil.ID, Quantity: 6}))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock))
	assert.Equal(t, 5, env.product(t, oil.ID).Stock)
}

func TestCreateNotFound(t *testing.T) {
	env := newTestEnv(t)
	shop := env.seedShop(t, nil)

	_, err := env.svc.Create(context.Background(), checkoutInput(uuid.New(), ItemInput{ProductID: uuid.New(), Quantity: 1}))
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Equal(t, "Shop not found", pkgerrors.As(err).Message())

	missing := uuid.New()
	_, err = env.svc.Create(context.Background(), checkoutInput(shop.ID, ItemInput{ProductID: missing, Quantity: 1}))
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Equal(t, "Product not found: "+missing.String(), pkgerrors.As(err).Message())
}

func TestCreateRejectsProductFromAnotherShop(t *testing.T) {
	env := newTestEnv(t)
	shop := env.seedShop(t, nil)
	other := env.seedShop(t, nil)
	p := env.seedProduct(t, other.ID, "Paneer", 9000, 3)

	_, err := env.svc.Create(context.Background(), checkoutInput(shop.ID, ItemInput{ProductID: p.ID, Quantity: 1}))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Equal(t, 3, env.product(t, p.ID).Stock)
}

func TestCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	shopID := uuid.New()

	cases := map[string]func(*CreateInput){
		"missing email":   func(in *CreateInput) { in.CustomerEmail = "  " },
		"missing address": func(in *CreateInput) { in.Address.FullAddress = "" },
		"missing phone":   func(in *CreateInput) { in.Address.Phone = "" },
		"no items":        func(in *CreateInput) { in.Items = nil },
		"bad delivery":    func(in *CreateInput) { in.DeliveryOption = "drone" },
		"bad payment":     func(in *CreateInput) { in.PaymentMethod = "cheque" },
		"missing shop id": func(in *CreateInput) { in.ShopID = uuid.Nil },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			input := checkoutInput(shopID, ItemInput{ProductID: uuid.New(), Quantity: 1})
			mutate(&input)
			_, err := env.svc.Create(context.Background(), input)
			assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)
		})
	}
}

func TestCreateRejectsNonPositiveQuantity(t *testing.T) {
	env := newTestEnv(t)
	shop := env.seedShop(t, nil)
	p := env.seedProduct(t, shop.ID, "Poha", 5500, 4)

	for _, qty := range []int{0, -2} {
		_, err := env.svc.Create(context.Background(), checkoutInput(shop.ID, ItemInput{ProductID: p.ID, Quantity: qty}))
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "qty %d", qty)
	}
	assert.Equal(t, 4, env.product(t, p.ID).Stock)
}

func TestCreateSurvivesDispatcherFailure(t *testing.T) {
	env := newTestEnv(t)
	env.dispatcher.err = errors.New("queue full")
	shop := env.seedShop(t, nil)
	p := env.seedProduct(t, shop.ID, "Bread", 4000, 2)

	order, err := env.svc.Create(context.Background(), checkoutInput(shop.ID, ItemInput{ProductID: p.ID, Quantity: 1}))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, order.ID)
}

func TestCreateEmailPrefersAddressThenShop(t *testing.T) {
	env := newTestEnv(t)
	shop := env.seedShop(t, nil)
	require.NoError(t, env.db.Model(&shop).Update("email", "shop@example.com").Error)
	p := env.seedProduct(t, shop.ID, "Eggs", 8400, 12)

	_, err := env.svc.Create(context.Background(), checkoutInput(shop.ID, ItemInput{ProductID: p.ID, Quantity: 1}))
	require.NoError(t, err)

	input := checkoutInput(shop.ID, ItemInput{ProductID: p.ID, Quantity: 1})
	input.Address.Email = "asha.delivery@example.com"
	_, err = env.svc.Create(context.Background(), input)
	require.NoError(t, err)

	var emails []string
	for _, msg := range env.dispatcher.sent() {
		if msg.Channel == enums.NotificationChannelEmail {
			emails = append(emails, msg.Recipient)
		}
	}
	assert.Equal(t, []string{"shop@example.com", "asha.delivery@example.com"}, emails)
}

// The test pool has one connection, so these checkouts run one after the
// other. TestCreateLosesStockRaceAfterValidation drives the interleaving
// where both pass validation.
func TestConcurrentCheckoutsSerializeOnLastUnit(t *testing.T) {
	env := newTestEnv(t)
	shop := env.seedShop(t, nil)
	last := env.seedProduct(t, shop.ID, "Mango Box", 90000, 1)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.svc.Create(context.Background(), checkoutInput(shop.ID, ItemInput{ProductID: last.ID, Quantity: 1}))
		}(i)
	}
	wg.Wait()

	var ok, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, rejected)
	assert.Equal(t, 0, env.product(t, last.ID).Stock)
	assert.Equal(t, int64(1), env.orderCount(t))
}

func TestCreateLosesStockRaceAfterValidation(t *testing.T) {
	env := newTestEnv(t)
	shop := env.seedShop(t, nil)
	last := env.seedProduct(t, shop.ID, "Mango Box", 90000, 1)

	// Another checkout takes the last unit after this one validated it.
	const hook = "test:drain_last_unit"
	require.NoError(t, env.db.Callback().Update().Before("gorm:update").Register(hook, func(d *gorm.DB) {
		if d.Statement.Table != "products" {
			return
		}
		_ = d.Session(&gorm.Session{NewDB: true, SkipHooks: true}).
			Exec("UPDATE products SET stock = 0, is_available = false WHERE id = ?", last.ID).Error
	}))
	t.Cleanup(func() { _ = env.db.Callback().Update().Remove(hook) })

	_, err := env.svc.Create(context.Background(), checkoutInput(shop.ID, ItemInput{ProductID: last.ID, Quantity: 1}))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock))
	assert.Zero(t, env.orderCount(t))
	assert.Empty(t, env.dispatcher.sent())
}

func TestGetOrder(t *testing.T) {
	env := newTestEnv(t)
	shop := env.seedShop(t, nil)
	p := env.seedProduct(t, shop.ID, "Jaggery", 7000, 3)
	created, err := env.svc.Create(context.Background(), checkoutInput(shop.ID, ItemInput{ProductID: p.ID, Quantity: 1}))
	require.NoError(t, err)

	got, err := env.svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.FinalPaise, got.FinalPaise)
	assert.Len(t, got.Items, 1)
	assert.Equal(t, []enums.OrderStatus{enums.OrderStatusConfirmed, enums.OrderStatusCancelled}, got.NextStatuses)

	_, err = env.svc.Get(context.Background(), uuid.New())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Equal(t, "Order not found", pkgerrors.As(err).Message())
}

func TestListByCustomerNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	shop := env.seedShop(t, nil)
	p := env.seedProduct(t, shop.ID, "Honey", 30000, 10)

	first, err := env.svc.Create(context.Background(), checkoutInput(shop.ID, ItemInput{ProductID: p.ID, Quantity: 1}))
	require.NoError(t, err)
	second, err := env.svc.Create(context.Background(), checkoutInput(shop.ID, ItemInput{ProductID: p.ID, Quantity: 2}))
	require.NoError(t, err)
	require.NoError(t, env.db.Model(&models.Order{}).Where("id = ?", first.ID).
		Update("created_at", second.CreatedAt.Add(-time.Second)).Error)

	other := checkoutInput(shop.ID, ItemInput{ProductID: p.ID, Quantity: 1})
	other.CustomerEmail = "ravi@example.com"
	_, err = env.svc.Create(context.Background(), other)
	require.NoError(t, err)

	list, err := env.svc.ListByCustomer(context.Background(), "asha@example.com")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	assert.Len(t, list[0].Items, 1)

	_, err = env.svc.ListByCustomer(context.Background(), " ")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	none, err := env.svc.ListByCustomer(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestNewServiceRequiresDeps(t *testing.T) {
	_, err := NewService(Deps{})
	assert.Error(t, err)
	_, err = NewService(Deps{Repo: NewRepository(nil), Tx: nil, Dispatcher: &recordingDispatcher{}, Logger: logger.Nop()})
	assert.Error(t, err)
}
