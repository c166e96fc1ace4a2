package shops

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/grambazaar/storefront-backend/internal/repo"
	pkgerrors "github.com/grambazaar/storefront-backend/pkg/errors"
)

// Service exposes shop reads.
type Service interface {
	List(ctx context.Context, filter ListFilter) ([]ShopDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ShopDTO, error)
}

type service struct {
	repo *Repository
}

func NewService(repository *Repository) (Service, error) {
	if repository == nil {
		return nil, fmt.Errorf("shop repository required")
	}
	return &service{repo: repository}, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]ShopDTO, error) {
	rows, err := s.repo.ListActive(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shops")
	}
	out := make([]ShopDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewShopDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ShopDTO, error) {
	shop, err := s.repo.FindWithProducts(ctx, id)
	if err != nil {
		return nil, repo.Translate(err, "Shop not found", "load shop")
	}
	return NewShopDTO(shop), nil
}
