package middleware

import "context"

type contextKey string

const (
	ctxAdminEmail contextKey = "admin_email"
	ctxRole       contextKey = "actor_role"
)

func AdminEmailFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAdminEmail).(string); ok {
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

// WithAdminIdentity seeds the context the way the auth middleware does.
// Exposed for handler tests.
func WithAdminIdentity(ctx context.Context, email, role string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxAdminEmail, email)
	return context.WithValue(ctx, ctxRole, role)
}
