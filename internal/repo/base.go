package repo

import (
	"context"
	stdErrors "errors"

	pkgerrors "github.com/grambazaar/storefront-backend/pkg/errors"
	"gorm.io/gorm"
)

// Base provides a shared foundation for domain repositories.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// WithTx returns a copy of the base that issues queries on tx.
func (b Base) WithTx(tx *gorm.DB) Base {
	if tx == nil {
		return b
	}
	return Base{db: tx}
}

// First loads the first row of T matching conds, e.g. First[models.User](ctx, b, "id = ?", id).
func First[T any](ctx context.Context, b Base, conds ...any) (*T, error) {
	var row T
	if err := b.DB(ctx).First(&row, conds...).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Affected turns a write that matched no rows into gorm.ErrRecordNotFound.
func Affected(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Translate maps a gorm error onto the typed taxonomy. A missing record
// becomes NOT_FOUND carrying notFoundMsg and constraint failures become
// CONFLICT. Anything else is a dependency failure.
func Translate(err error, notFoundMsg, op string) error {
	if err == nil {
		return nil
	}
	if stdErrors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMsg)
	}
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	if pkgerrors.IsUniqueViolation(err) || pkgerrors.IsCheckViolation(err) || pkgerrors.IsForeignKeyViolation(err) {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, op+" conflicts with existing data")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}
