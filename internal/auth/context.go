package auth

import (
	"context"
	"errors"
)

type ctxKey int

const (
	ctxUserID ctxKey = iota
	ctxRole
	ctxPermissions
)

// Identity is the authenticated caller.
type Identity struct {
	UserID      string
	Role        string
	Permissions map[string][]string
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	ctx = context.WithValue(ctx, ctxUserID, id.UserID)
	ctx = context.WithValue(ctx, ctxRole, id.Role)
	ctx = context.WithValue(ctx, ctxPermissions, id.Permissions)
	return ctx
}

func UserID(ctx context.Context) (string, error) {
	v := ctx.Value(ctxUserID)
	if s, ok := v.(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New("user_id not in context")
}

func Role(ctx context.Context) (string, error) {
	v := ctx.Value(ctxRole)
	if s, ok := v.(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New("role not in context")
}

// Permissions returns the caller's project -> tabs map. Missing means none.
func Permissions(ctx context.Context) map[string][]string {
	if v, ok := ctx.Value(ctxPermissions).(map[string][]string); ok {
		return v
	}
	return nil
}
