package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/grambazaar/storefront-backend/internal/address"
	"github.com/grambazaar/storefront-backend/internal/auth"
	"github.com/grambazaar/storefront-backend/internal/orders"
	"github.com/grambazaar/storefront-backend/internal/products"
	"github.com/grambazaar/storefront-backend/internal/seed"
	"github.com/grambazaar/storefront-backend/internal/shops"
	"github.com/grambazaar/storefront-backend/internal/users"
)

type stubShops struct {
	listFn func(ctx context.Context, filter shops.ListFilter) ([]shops.ShopDTO, error)
	getFn  func(ctx context.Context, id uuid.UUID) (*shops.ShopDTO, error)
}

func (s stubShops) List(ctx context.Context, filter shops.ListFilter) ([]shops.ShopDTO, error) {
	return s.listFn(ctx, filter)
}

func (s stubShops) Get(ctx context.Context, id uuid.UUID) (*shops.ShopDTO, error) {
	return s.getFn(ctx, id)
}

type stubProducts struct {
	listFn   func(ctx context.Context, filter products.ListFilter) ([]products.ProductDTO, error)
	getFn    func(ctx context.Context, id uuid.UUID) (*products.ProductDTO, error)
	adjustFn func(ctx context.Context, id uuid.UUID, delta int) (*products.ProductDTO, error)
}

func (s stubProducts) List(ctx context.Context, filter products.ListFilter) ([]products.ProductDTO, error) {
	return s.listFn(ctx, filter)
}

func (s stubProducts) Get(ctx context.Context, id uuid.UUID) (*products.ProductDTO, error) {
	return s.getFn(ctx, id)
}

func (s stubProducts) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*products.ProductDTO, error) {
	return s.adjustFn(ctx, id, delta)
}

type stubOrders struct {
	createFn func(ctx context.Context, input orders.CreateInput) (*orders.OrderDTO, error)
	getFn    func(ctx context.Context, id uuid.UUID) (*orders.OrderDTO, error)
	statusFn func(ctx context.Context, id uuid.UUID, status string) (*orders.OrderDTO, error)
	listFn   func(ctx context.Context, email string) ([]orders.OrderDTO, error)
}

func (s stubOrders) Create(ctx context.Context, input orders.CreateInput) (*orders.OrderDTO, error) {
	return s.createFn(ctx, input)
}

func (s stubOrders) Get(ctx context.Context, id uuid.UUID) (*orders.OrderDTO, error) {
	return s.getFn(ctx, id)
}

func (s stubOrders) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*orders.OrderDTO, error) {
	return s.statusFn(ctx, id, status)
}

func (s stubOrders) ListByCustomer(ctx context.Context, email string) ([]orders.OrderDTO, error) {
	return s.listFn(ctx, email)
}

type stubAddresses struct {
	listFn   func(ctx context.Context, email string) ([]address.AddressDTO, error)
	createFn func(ctx context.Context, draft address.Draft) (*address.AddressDTO, error)
	updateFn func(ctx context.Context, id uuid.UUID, patch address.Patch) (*address.AddressDTO, error)
	deleteFn func(ctx context.Context, id uuid.UUID) error
}

func (s stubAddresses) List(ctx context.Context, email string) ([]address.AddressDTO, error) {
	return s.listFn(ctx, email)
}

func (s stubAddresses) Create(ctx context.Context, draft address.Draft) (*address.AddressDTO, error) {
	return s.createFn(ctx, draft)
}

func (s stubAddresses) Update(ctx context.Context, id uuid.UUID, patch address.Patch) (*address.AddressDTO, error) {
	return s.updateFn(ctx, id, patch)
}

func (s stubAddresses) Delete(ctx context.Context, id uuid.UUID) error {
	return s.deleteFn(ctx, id)
}

type stubAuth struct {
	registerFn func(ctx context.Context, req auth.RegisterRequest) (*auth.AuthResponse, error)
	loginFn    func(ctx context.Context, req auth.LoginRequest) (*auth.AuthResponse, error)
	profileFn  func(ctx context.Context, id uuid.UUID) (*users.UserDTO, error)
	updateFn   func(ctx context.Context, id uuid.UUID, req auth.ProfileUpdate) (*users.UserDTO, error)
	forgotFn   func(ctx context.Context, email string) error
	resetFn    func(ctx context.Context, req auth.ResetPasswordRequest) error
	listFn     func(ctx context.Context) (*auth.UserList, error)
}

func (s stubAuth) Register(ctx context.Context, req auth.RegisterRequest) (*auth.AuthResponse, error) {
	return s.registerFn(ctx, req)
}

func (s stubAuth) Login(ctx context.Context, req auth.LoginRequest) (*auth.AuthResponse, error) {
	return s.loginFn(ctx, req)
}

func (s stubAuth) Profile(ctx context.Context, id uuid.UUID) (*users.UserDTO, error) {
	return s.profileFn(ctx, id)
}

func (s stubAuth) UpdateProfile(ctx context.Context, id uuid.UUID, req auth.ProfileUpdate) (*users.UserDTO, error) {
	return s.updateFn(ctx, id, req)
}

func (s stubAuth) ForgotPassword(ctx context.Context, email string) error {
	return s.forgotFn(ctx, email)
}

func (s stubAuth) ResetPassword(ctx context.Context, req auth.ResetPasswordRequest) error {
	return s.resetFn(ctx, req)
}

func (s stubAuth) ListUsers(ctx context.Context) (*auth.UserList, error) {
	return s.listFn(ctx)
}

type stubSeeder struct {
	runFn func(ctx context.Context) (*seed.Result, error)
}

func (s stubSeeder) Run(ctx context.Context) (*seed.Result, error) {
	return s.runFn(ctx)
}

func withURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeData(t *testing.T, resp *httptest.ResponseRecorder, dest any) {
	t.Helper()
	envelope := struct {
		Data any `json:"data"`
	}{Data: dest}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func decodeErrorCode(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return envelope.Error.Code
}
