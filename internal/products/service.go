package products

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/grambazaar/storefront-backend/internal/repo"
	pkgerrors "github.com/grambazaar/storefront-backend/pkg/errors"
	"github.com/grambazaar/storefront-backend/pkg/logger"
)

// Service exposes catalog reads and manual stock adjustment.
type Service interface {
	List(ctx context.Context, filter ListFilter) ([]ProductDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*ProductDTO, error)
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService wires the product service.
func NewService(repository *Repository, logg *logger.Logger) (Service, error) {
	if repository == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repository, logg: logg}, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]ProductDTO, error) {
	rows, err := s.repo.ListAvailable(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return NewProductDTOs(rows), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repo.Translate(err, "Product not found", "load product")
	}
	return NewProductDTO(product), nil
}

// AdjustStock applies a signed delta to a product's stock, never going below zero.
func (s *service) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*ProductDTO, error) {
	if err := s.repo.AdjustStock(ctx, id, delta); err != nil {
		return nil, repo.Translate(err, "Product not found", "adjust stock")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repo.Translate(err, "Product not found", "load product")
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"product_id": id.String(),
		"delta":      delta,
		"stock":      product.Stock,
	})
	s.logg.Info(ctx, "products.stock.adjusted")

	return NewProductDTO(product), nil
}
