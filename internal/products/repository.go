package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grambazaar/storefront-backend/internal/repo"
	"github.com/grambazaar/storefront-backend/pkg/db/models"
)

const listLimit = 100

// ListFilter narrows the catalog listing. Zero values are ignored.
type ListFilter struct {
	ShopID   *uuid.UUID
	Category string
	Query    string
}

// Repository persists products and owns every stock mutation.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Base.WithTx(tx)}
}

// Create inserts a product.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.DB(ctx).Create(product).Error
}

// FindByID loads a single product.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return repo.First[models.Product](ctx, r.Base, "id = ?", id)
}

// FindByIDs loads the products matching ids keyed by id. Missing ids are absent.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	out := make(map[uuid.UUID]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Product
	if err := r.DB(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

// ListAvailable returns up to 100 in-stock products matching filter.
func (r *Repository) ListAvailable(ctx context.Context, filter ListFilter) ([]models.Product, error) {
	query := r.DB(ctx).
		Model(&models.Product{}).
		Where("is_available = ?", true)

	if filter.ShopID != nil {
		query = query.Where("shop_id = ?", *filter.ShopID)
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, ContainsPattern(q))
	}

	var rows []models.Product
	if err := query.Order("name ASC").Limit(listLimit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByShop returns every product of a shop regardless of stock.
func (r *Repository) ListByShop(ctx context.Context, shopID uuid.UUID) ([]models.Product, error) {
	var rows []models.Product
	if err := r.DB(ctx).
		Where("shop_id = ?", shopID).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// DecrementStock removes qty units only if at least qty are in stock. It
// reports false, without error, when the guard rejected the update.
func (r *Repository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	res := r.DB(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		Updates(map[string]any{
			"stock":        gorm.Expr("stock - ?", qty),
			"is_available": gorm.Expr("stock - ? > 0", qty),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// IncrementStock returns qty units to stock.
func (r *Repository) IncrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	res := r.DB(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"stock":        gorm.Expr("stock + ?", qty),
			"is_available": gorm.Expr("stock + ? > 0", qty),
		})
	return repo.Affected(res)
}

// AdjustStock applies delta, clamping the result at zero.
func (r *Repository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	res := r.DB(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"stock":        gorm.Expr("CASE WHEN stock + ? < 0 THEN 0 ELSE stock + ? END", delta, delta),
			"is_available": gorm.Expr("stock + ? > 0", delta),
		})
	return repo.Affected(res)
}

// ContainsPattern builds a lower-cased LIKE pattern matching q anywhere,
// escaping LIKE metacharacters with a backslash.
func ContainsPattern(q string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(q))
	return "%" + escaped + "%"
}
