package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/fastcommand/finance-backend/internal/access"
	"github.com/fastcommand/finance-backend/pkg/enums"
)

type contextKey string

const (
	ctxUserID    contextKey = "user_id"
	ctxUserName  contextKey = "user_name"
	ctxRole      contextKey = "actor_role"
	ctxAccessID  contextKey = "access_id"
	ctxOverrides contextKey = "permission_overrides"
)

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

func UserNameFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserName).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

func AccessIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAccessID).(string); ok {
		return v
	}
	return ""
}

// OverridesFromContext returns the per-user permission grants seeded by Auth.
func OverridesFromContext(ctx context.Context) []string {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxOverrides).([]string); ok {
		return v
	}
	return nil
}

// ActorFromContext rebuilds the authenticated actor seeded by Auth. A request
// that never passed Auth yields the zero actor, whose unknown role holds no
// permissions.
func ActorFromContext(ctx context.Context) access.Actor {
	actor := access.Actor{
		Name:      UserNameFromContext(ctx),
		Role:      enums.Role(RoleFromContext(ctx)),
		Overrides: OverridesFromContext(ctx),
	}
	if id, err := uuid.Parse(UserIDFromContext(ctx)); err == nil {
		actor.ID = id
	}
	return actor
}
