package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grambazaar/storefront-backend/internal/repo"
	"github.com/grambazaar/storefront-backend/pkg/db/models"
	"github.com/grambazaar/storefront-backend/pkg/enums"
)

// Repository persists orders and their item snapshots.
type Repository struct {
	repo.Base
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Base.WithTx(tx)}
}

// Create inserts the order together with its items.
func (r *Repository) Create(ctx context.Context, order *models.Order) error {
	return r.DB(ctx).Create(order).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.DB(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByCustomerEmail returns every order placed under email, newest first.
func (r *Repository) ListByCustomerEmail(ctx context.Context, email string) ([]models.Order, error) {
	var rows []models.Order
	err := r.DB(ctx).
		Preload("Items").
		Where("customer_email = ?", email).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CompareAndSetStatus moves the order from `from` to `to` only if it is still
// in `from`, applying any extra column updates in the same statement. It
// reports whether a row changed.
func (r *Repository) CompareAndSetStatus(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus, extra map[string]any) (bool, error) {
	updates := map[string]any{"status": to}
	for k, v := range extra {
		updates[k] = v
	}
	res := r.DB(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
