package shops

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grambazaar/storefront-backend/internal/products"
	"github.com/grambazaar/storefront-backend/internal/repo"
	"github.com/grambazaar/storefront-backend/pkg/db/models"
)

const listLimit = 50

// ListFilter narrows shop listings. Zero values are ignored.
type ListFilter struct {
	Category string
	Query    string
}

// Repository handles shop persistence.
type Repository struct {
	repo.Base
}

// NewRepository binds a GORM DB to shop operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Base.WithTx(tx)}
}

// Create persists a new shop row.
func (r *Repository) Create(ctx context.Context, shop *models.Shop) error {
	return r.DB(ctx).Create(shop).Error
}

// FindByID loads a shop without its products.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	return repo.First[models.Shop](ctx, r.Base, "id = ?", id)
}

// FindWithProducts loads a shop and all of its products.
func (r *Repository) FindWithProducts(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	var shop models.Shop
	if err := r.DB(ctx).
		Preload("Products", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		First(&shop, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

// ListActive returns up to 50 active shops, best rated first.
func (r *Repository) ListActive(ctx context.Context, filter ListFilter) ([]models.Shop, error) {
	query := r.DB(ctx).
		Model(&models.Shop{}).
		Where("is_active = ?", true)

	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := products.ContainsPattern(q)
		query = query.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	var rows []models.Shop
	if err := query.Order("rating DESC").Order("name ASC").Limit(listLimit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
