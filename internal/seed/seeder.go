// Package seed replaces the development database with a demo catalogue of
// Kolkata storefronts and two sign-in accounts.
package seed

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/grambazaar/storefront-backend/internal/products"
	"github.com/grambazaar/storefront-backend/internal/repo"
	"github.com/grambazaar/storefront-backend/internal/shops"
	"github.com/grambazaar/storefront-backend/internal/users"
	"github.com/grambazaar/storefront-backend/pkg/db/models"
	"github.com/grambazaar/storefront-backend/pkg/enums"
	pkgerrors "github.com/grambazaar/storefront-backend/pkg/errors"
	"github.com/grambazaar/storefront-backend/pkg/logger"
	"github.com/grambazaar/storefront-backend/pkg/pricing"
	"github.com/grambazaar/storefront-backend/pkg/security"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Account is a demo login returned to the caller.
type Account struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Role     enums.UserRole `json:"role"`
}

// Result summarises a completed seed.
type Result struct {
	Seeded       bool      `json:"seeded"`
	Shops        int       `json:"shops"`
	Products     int       `json:"products"`
	Users        int       `json:"users"`
	DemoAccounts []Account `json:"demoAccounts"`
}

type Seeder struct {
	tx     txRunner
	hasher *security.PasswordHasher
	logg   *logger.Logger
}

func NewSeeder(tx txRunner, hasher *security.PasswordHasher, logg *logger.Logger) (*Seeder, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if hasher == nil {
		return nil, fmt.Errorf("password hasher required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Seeder{tx: tx, hasher: hasher, logg: logg}, nil
}

// Run wipes orders, products, shops and users, then inserts the demo data in
// one transaction. Addresses are keyed by email and survive.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	catalog, err := buildCatalog(demoShops)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build demo catalog")
	}
	// Hashed up front so argon2 never runs inside the transaction.
	accounts := make([]users.CreateUserDTO, 0, len(demoAccounts))
	for _, a := range demoAccounts {
		hash, err := s.hasher.Hash(a.Password)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash demo password")
		}
		accounts = append(accounts, users.CreateUserDTO{
			Name:         a.Name,
			Email:        a.Email,
			Phone:        a.Phone,
			PasswordHash: hash,
			Role:         a.Role,
		})
	}

	result := &Result{Seeded: true}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := wipe(ctx, tx); err != nil {
			return err
		}
		shopRepo := shops.NewRepository(tx)
		productRepo := products.NewRepository(tx)
		for _, entry := range catalog {
			shop := entry.shop
			if err := shopRepo.Create(ctx, &shop); err != nil {
				return repo.Translate(err, "Shop not found", "seed shop "+shop.Name)
			}
			for _, product := range entry.products {
				product.ShopID = shop.ID
				if err := productRepo.Create(ctx, &product); err != nil {
					return repo.Translate(err, "Product not found", "seed product "+product.Name)
				}
				result.Products++
			}
			result.Shops++
		}

		userRepo := users.NewRepository(tx)
		for _, dto := range accounts {
			if _, err := userRepo.Create(ctx, dto); err != nil {
				return repo.Translate(err, "User not found", "seed user "+dto.Email)
			}
			result.Users++
		}
		return nil
	})
	if err != nil {
		s.logg.Error(ctx, "seed.failed", err)
		return nil, err
	}

	for _, a := range demoAccounts {
		result.DemoAccounts = append(result.DemoAccounts, Account{Email: a.Email, Password: a.Password, Role: a.Role})
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"shops":    result.Shops,
		"products": result.Products,
		"users":    result.Users,
	}), "seed.completed")
	return result, nil
}

// wipe deletes children before parents so foreign keys hold throughout.
func wipe(ctx context.Context, tx *gorm.DB) error {
	all := tx.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, table := range []any{&models.OrderItem{}, &models.Order{}, &models.Product{}, &models.Shop{}, &models.User{}} {
		if err := all.Delete(table).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("clear %T", table))
		}
	}
	return nil
}

type catalogEntry struct {
	shop     models.Shop
	products []models.Product
}

func buildCatalog(seeds []shopSeed) ([]catalogEntry, error) {
	out := make([]catalogEntry, 0, len(seeds))
	for _, s := range seeds {
		lat, lng := s.Lat, s.Lng
		entry := catalogEntry{shop: models.Shop{
			Name:        s.Name,
			Category:    s.Category,
			Description: s.Description,
			Phone:       s.Phone,
			Email:       s.Email,
			Address: models.ShopAddress{
				Street:   s.Street,
				City:     s.City,
				Pincode:  s.Pincode,
				Location: models.GeoPoint{Lat: &lat, Lng: &lng},
			},
			Rating:           s.Rating,
			DeliveryRadiusKm: s.RadiusKm,
			Hours:            models.BusinessHours{Open: "08:00", Close: "21:00"},
			IsActive:         true,
		}}
		for _, p := range s.Products {
			price, err := pricing.ParseRupees(p.Price)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", p.Name, err)
			}
			entry.products = append(entry.products, models.Product{
				Name:          p.Name,
				Category:      p.Category,
				PricePaise:    price.Paise(),
				Stock:         p.Stock,
				Images:        []string{},
				RegionalNames: map[string]string{"bengali": p.Bengali},
			})
		}
		out = append(out, entry)
	}
	return out, nil
}
