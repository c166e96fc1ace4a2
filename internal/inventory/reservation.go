// Package inventory validates requested quantities against product stock
// and commits them with guarded decrements.
package inventory

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/grambazaar/storefront-backend/internal/products"
	"github.com/grambazaar/storefront-backend/internal/repo"
	pkgerrors "github.com/grambazaar/storefront-backend/pkg/errors"
	"github.com/grambazaar/storefront-backend/pkg/pricing"
)

// Line is one requested product quantity.
type Line struct {
	ProductID uuid.UUID
	Qty       int
}

// Reservation is a committed decrement together with the product snapshot
// taken while validating it.
type Reservation struct {
	ProductID uuid.UUID
	ShopID    uuid.UUID
	Name      string
	Qty       int
	UnitPrice pricing.Money
}

// Reserve validates every line before touching stock, then decrements each
// line in order with a conditional update. Run it inside a transaction so a
// failure on a later line leaves no earlier decrement behind.
func Reserve(ctx context.Context, tx *gorm.DB, lines []Line) ([]Reservation, error) {
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item is required")
	}
	store := products.NewRepository(tx)

	reservations, err := validate(ctx, store, lines)
	if err != nil {
		return nil, err
	}

	for _, res := range reservations {
		ok, err := store.DecrementStock(ctx, res.ProductID, res.Qty)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
		}
		if !ok {
			return nil, insufficientStock(res.ProductID, res.Name, res.Qty, -1)
		}
	}
	return reservations, nil
}

func validate(ctx context.Context, store *products.Repository, lines []Line) ([]Reservation, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		if line.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "productId is required")
		}
		if line.Qty <= 0 {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "quantity for product %s must be positive", line.ProductID).
				WithDetails(map[string]any{"product_id": line.ProductID, "quantity": line.Qty})
		}
		ids = append(ids, line.ProductID)
	}

	found, err := store.FindByIDs(ctx, ids)
	if err != nil {
		return nil, repo.Translate(err, "Products not found", "load products")
	}

	requested := make(map[uuid.UUID]int, len(lines))
	reservations := make([]Reservation, 0, len(lines))
	for _, line := range lines {
		product, ok := found[line.ProductID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found: "+line.ProductID.String()).
				WithDetails(map[string]any{"product_id": line.ProductID})
		}

		requested[line.ProductID] += line.Qty
		if requested[line.ProductID] > product.Stock {
			return nil, insufficientStock(product.ID, product.Name, requested[line.ProductID], product.Stock)
		}

		reservations = append(reservations, Reservation{
			ProductID: product.ID,
			ShopID:    product.ShopID,
			Name:      product.Name,
			Qty:       line.Qty,
			UnitPrice: pricing.Money(product.PricePaise),
		})
	}
	return reservations, nil
}

// Restore returns reserved units to stock. It attempts every reservation and
// reports all failures together.
func Restore(ctx context.Context, tx *gorm.DB, reservations []Reservation) error {
	store := products.NewRepository(tx)
	var errs error
	for _, res := range reservations {
		if err := store.IncrementStock(ctx, res.ProductID, res.Qty); err != nil {
			errs = multierr.Append(errs, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restore stock for "+res.ProductID.String()))
		}
	}
	return errs
}

// insufficientStock builds the rejection for name; available < 0 means the
// guarded decrement lost a race and the current level is unknown.
func insufficientStock(id uuid.UUID, name string, requested, available int) error {
	details := map[string]any{
		"product_id":   id,
		"product_name": name,
		"requested":    requested,
	}
	if available >= 0 {
		details["available"] = available
	}
	return pkgerrors.Newf(pkgerrors.CodeInsufficientStock, "Insufficient stock for %s", name).WithDetails(details)
}
