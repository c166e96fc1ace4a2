package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/grambazaar/storefront-backend/pkg/enums"
)

type contextKey string

const (
	ctxUserID contextKey = "user_id"
	ctxEmail  contextKey = "user_email"
	ctxRole   contextKey = "user_role"
)

// Principal is the caller identified by a bearer token.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Role   enums.UserRole
}

// WithPrincipal stores the authenticated caller on the context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUserID, p.UserID)
	ctx = context.WithValue(ctx, ctxEmail, p.Email)
	return context.WithValue(ctx, ctxRole, p.Role)
}

// PrincipalFromContext reports the authenticated caller, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	id, ok := ctx.Value(ctxUserID).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return Principal{}, false
	}
	email, _ := ctx.Value(ctxEmail).(string)
	role, _ := ctx.Value(ctxRole).(enums.UserRole)
	return Principal{UserID: id, Email: email, Role: role}, true
}

func UserIDFromContext(ctx context.Context) string {
	if p, ok := PrincipalFromContext(ctx); ok {
		return p.UserID.String()
	}
	return ""
}

func RoleFromContext(ctx context.Context) enums.UserRole {
	if p, ok := PrincipalFromContext(ctx); ok {
		return p.Role
	}
	return ""
}
