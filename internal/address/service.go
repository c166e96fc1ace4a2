package address

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grambazaar/storefront-backend/internal/repo"
	"github.com/grambazaar/storefront-backend/pkg/db/models"
	"github.com/grambazaar/storefront-backend/pkg/errors"
)

const notFoundMessage = "Address not found"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service manages a customer's saved delivery addresses. At most one address
// per email is the default.
type Service interface {
	List(ctx context.Context, email string) ([]AddressDTO, error)
	Create(ctx context.Context, draft Draft) (*AddressDTO, error)
	Update(ctx context.Context, id uuid.UUID, patch Patch) (*AddressDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
	tx   txRunner
}

func NewService(repository *Repository, tx txRunner) (Service, error) {
	if repository == nil {
		return nil, fmt.Errorf("address repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repository, tx: tx}, nil
}

func (s *service) List(ctx context.Context, email string) ([]AddressDTO, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, errors.New(errors.CodeValidation, "Email is required")
	}
	rows, err := s.repo.ListByEmail(ctx, email)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "list addresses")
	}
	out := make([]AddressDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewAddressDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, draft Draft) (*AddressDTO, error) {
	addr := &models.Address{
		UserEmail:   normalizeEmail(draft.UserEmail),
		FullAddress: strings.TrimSpace(draft.FullAddress),
		Phone:       strings.TrimSpace(draft.Phone),
		Label:       draft.Label,
		IsDefault:   draft.IsDefault,
	}
	if addr.UserEmail == "" || addr.FullAddress == "" || addr.Phone == "" {
		return nil, errors.New(errors.CodeValidation, "Email, address, and phone are required")
	}
	addr.Label = addr.Label.OrDefault()
	if !addr.Label.IsValid() {
		return nil, errors.Newf(errors.CodeValidation, "Unknown address label %q", addr.Label)
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if addr.IsDefault {
			if err := txRepo.ClearDefault(ctx, addr.UserEmail, uuid.Nil); err != nil {
				return repo.Translate(err, notFoundMessage, "clear default address")
			}
		}
		if err := txRepo.Create(ctx, addr); err != nil {
			return repo.Translate(err, notFoundMessage, "create address")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewAddressDTO(addr), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, patch Patch) (*AddressDTO, error) {
	var updated *models.Address
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		addr, err := txRepo.FindByID(ctx, id)
		if err != nil {
			return repo.Translate(err, notFoundMessage, "load address")
		}
		if err := applyPatch(addr, patch); err != nil {
			return err
		}
		// the old default is cleared first so the single-default index never sees two rows
		if addr.IsDefault {
			if err := txRepo.ClearDefault(ctx, addr.UserEmail, addr.ID); err != nil {
				return repo.Translate(err, notFoundMessage, "clear default address")
			}
		}
		if err := txRepo.Save(ctx, addr); err != nil {
			return repo.Translate(err, notFoundMessage, "update address")
		}
		updated = addr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewAddressDTO(updated), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return repo.Translate(err, notFoundMessage, "delete address")
	}
	return nil
}

func applyPatch(addr *models.Address, patch Patch) error {
	if patch.FullAddress != nil {
		v := strings.TrimSpace(*patch.FullAddress)
		if v == "" {
			return errors.New(errors.CodeValidation, "fullAddress cannot be empty")
		}
		addr.FullAddress = v
	}
	if patch.Phone != nil {
		v := strings.TrimSpace(*patch.Phone)
		if v == "" {
			return errors.New(errors.CodeValidation, "phone cannot be empty")
		}
		addr.Phone = v
	}
	if patch.Label != nil {
		if !patch.Label.IsValid() {
			return errors.Newf(errors.CodeValidation, "Unknown address label %q", *patch.Label)
		}
		addr.Label = *patch.Label
	}
	if patch.IsDefault != nil {
		addr.IsDefault = *patch.IsDefault
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
