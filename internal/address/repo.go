package address

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grambazaar/storefront-backend/internal/repo"
	"github.com/grambazaar/storefront-backend/pkg/db/models"
)

// Repository persists saved addresses.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Base.WithTx(tx)}
}

// ListByEmail returns the default address first, then newest first.
func (r *Repository) ListByEmail(ctx context.Context, email string) ([]models.Address, error) {
	var rows []models.Address
	err := r.DB(ctx).
		Where("user_email = ?", email).
		Order("is_default DESC").
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Address, error) {
	return repo.First[models.Address](ctx, r.Base, "id = ?", id)
}

func (r *Repository) Create(ctx context.Context, addr *models.Address) error {
	return r.DB(ctx).Create(addr).Error
}

// Save writes every column of addr.
func (r *Repository) Save(ctx context.Context, addr *models.Address) error {
	return r.DB(ctx).Save(addr).Error
}

// ClearDefault unsets the default flag on every address of email except keep.
func (r *Repository) ClearDefault(ctx context.Context, email string, keep uuid.UUID) error {
	return r.DB(ctx).
		Model(&models.Address{}).
		Where("user_email = ? AND id <> ? AND is_default = ?", email, keep, true).
		Update("is_default", false).Error
}

// Delete removes the address. It returns gorm.ErrRecordNotFound when no row matched.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return repo.Affected(r.DB(ctx).Delete(&models.Address{}, "id = ?", id))
}
