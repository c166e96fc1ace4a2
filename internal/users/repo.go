package users

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grambazaar/storefront-backend/internal/repo"
	"github.com/grambazaar/storefront-backend/pkg/db/models"
)

// ProfileChanges lists the self-service profile columns. Nil fields are left untouched.
type ProfileChanges struct {
	Name  *string
	Phone *string
}

func (c ProfileChanges) columns() map[string]any {
	cols := map[string]any{}
	if c.Name != nil {
		cols["name"] = *c.Name
	}
	if c.Phone != nil {
		cols["phone"] = *c.Phone
	}
	return cols
}

// Repository stores customer and staff accounts.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create persists dto as a new active account.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.DB(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail expects email already lower-cased.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return repo.First[models.User](ctx, r.Base, "email = ?", email)
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return repo.First[models.User](ctx, r.Base, "id = ?", id)
}

// List returns every user, newest account first.
func (r *Repository) List(ctx context.Context) ([]models.User, error) {
	var rows []models.User
	if err := r.DB(ctx).Order("created_at DESC").Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.update(ctx, id, map[string]any{"last_login_at": at})
}

// UpdateProfile is a no-op when changes is empty.
func (r *Repository) UpdateProfile(ctx context.Context, id uuid.UUID, changes ProfileChanges) error {
	cols := changes.columns()
	if len(cols) == 0 {
		return nil
	}
	return r.update(ctx, id, cols)
}

func (r *Repository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	return r.update(ctx, id, map[string]any{"password_hash": hash})
}

func (r *Repository) update(ctx context.Context, id uuid.UUID, cols map[string]any) error {
	return repo.Affected(r.DB(ctx).Model(&models.User{}).Where("id = ?", id).Updates(cols))
}
