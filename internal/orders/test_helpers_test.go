package orders

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/grambazaar/storefront-backend/internal/notifications"
	"github.com/grambazaar/storefront-backend/pkg/db"
	"github.com/grambazaar/storefront-backend/pkg/db/models"
	"github.com/grambazaar/storefront-backend/pkg/geo"
	"github.com/grambazaar/storefront-backend/pkg/logger"
	"github.com/grambazaar/storefront-backend/pkg/pricing"
)

var (
	connaughtPlace = geo.Point{Lat: 28.6315, Lng: 77.2167}
	indiaGate      = geo.Point{Lat: 28.6129, Lng: 77.2295}
	noidaSector18  = geo.Point{Lat: 28.5355, Lng: 77.3910}
)

type recordingDispatcher struct {
	mu   sync.Mutex
	msgs []notifications.Message
	err  error
}

func (r *recordingDispatcher) Enqueue(_ context.Context, msg notifications.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.msgs = append(r.msgs, msg)
	return nil
}

func (r *recordingDispatcher) sent() []notifications.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notifications.Message(nil), r.msgs...)
}

type stubGeocoder struct {
	point  *geo.Point
	err    error
	calls  int
	onCall func()
}

func (s *stubGeocoder) Geocode(context.Context, string) (*geo.Point, error) {
	s.calls++
	if s.onCall != nil {
		s.onCall()
	}
	return s.point, s.err
}

type testEnv struct {
	db         *gorm.DB
	svc        Service
	dispatcher *recordingDispatcher
}

func newTestEnv(t *testing.T, configure ...func(*Deps)) *testEnv {
	t.Helper()
	dsn := "file:orders_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	// One connection serializes transactions the way row locks do in postgres.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, conn.AutoMigrate(&models.Shop{}, &models.Product{}, &models.Order{}, &models.OrderItem{}))

	dispatcher := &recordingDispatcher{}
	deps := Deps{
		Repo:          NewRepository(conn),
		Tx:            db.Wrap(conn),
		Dispatcher:    dispatcher,
		Schedule:      pricing.DefaultSchedule,
		FallbackKm:    geo.FallbackDistanceKm,
		FallbackEmail: "no-reply@grambazaar.in",
		Logger:        logger.Nop(),
	}
	for _, fn := range configure {
		fn(&deps)
	}
	svc, err := NewService(deps)
	require.NoError(t, err)
	return &testEnv{db: conn, svc: svc, dispatcher: dispatcher}
}

func (e *testEnv) seedShop(t *testing.T, location *geo.Point) models.Shop {
	t.Helper()
	shop := models.Shop{Name: "Sharma Kirana", Category: "grocery", Phone: "+919811100000", IsActive: true}
	if location != nil {
		lat, lng := location.Lat, location.Lng
		shop.Address.Location = models.GeoPoint{Lat: &lat, Lng: &lng}
	}
	require.NoError(t, e.db.Create(&shop).Error)
	return shop
}

func (e *testEnv) seedProduct(t *testing.T, shopID uuid.UUID, name string, pricePaise int64, stock int) models.Product {
	t.Helper()
	p := models.Product{ShopID: shopID, Name: name, Category: "grocery", PricePaise: pricePaise, Stock: stock}
	require.NoError(t, e.db.Create(&p).Error)
	return p
}

func (e *testEnv) product(t *testing.T, id uuid.UUID) models.Product {
	t.Helper()
	var p models.Product
	require.NoError(t, e.db.First(&p, "id = ?", id).Error)
	return p
}

func (e *testEnv) orderCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&models.Order{}).Count(&n).Error)
	return n
}

func checkoutInput(shopID uuid.UUID, items ...ItemInput) CreateInput {
	return CreateInput{
		ShopID:        shopID,
		Items:         items,
		CustomerEmail: "Asha@Example.com",
		CustomerName:  "Asha",
		Address: AddressInput{
			FullAddress: "12 Janpath, New Delhi",
			Phone:       "+919800000001",
		},
	}
}
