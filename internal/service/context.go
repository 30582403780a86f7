package service

import (
	"context"

	"github.com/wajeehjabribrahim/manajel-store/internal/models"

	"github.com/google/uuid"
)

type ctxKey string

const (
	ctxUserIDKey ctxKey = "userID"
	ctxRoleKey   ctxKey = "role"
)

func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxUserIDKey, id)
}

func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	v, ok := ctx.Value(ctxUserIDKey).(uuid.UUID)
	return v, ok
}

func WithRole(ctx context.Context, r models.Role) context.Context {
	return context.WithValue(ctx, ctxRoleKey, r)
}

func RoleFromContext(ctx context.Context) (models.Role, bool) {
	v, ok := ctx.Value(ctxRoleKey).(models.Role)
	return v, ok
}

// WithIdentity is WithUserID and WithRole in one call.
func WithIdentity(ctx context.Context, id uuid.UUID, r models.Role) context.Context {
	return WithRole(WithUserID(ctx, id), r)
}

func requireAuth(ctx context.Context) (uuid.UUID, models.Role, error) {
	uid, ok := UserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, "", ErrUnauthorized
	}
	role, ok := RoleFromContext(ctx)
	if !ok {
		role = models.RoleUser
	}
	return uid, role, nil
}

func isAdmin(ctx context.Context) bool {
	role, ok := RoleFromContext(ctx)
	return ok && role == models.RoleAdmin
}
