package middleware

import (
	"context"

	"github.com/aurumjoyeria/aurum-backend/pkg/auth/session"
	"github.com/aurumjoyeria/aurum-backend/pkg/enums"
)

type contextKey string

const (
	ctxIdentity  contextKey = "identity"
	ctxSessionID contextKey = "session_id"
)

// IdentityFromContext returns the resolved caller identity, if any.
func IdentityFromContext(ctx context.Context) (session.IdentitySummary, bool) {
	if ctx == nil {
		return session.IdentitySummary{}, false
	}
	if v, ok := ctx.Value(ctxIdentity).(session.IdentitySummary); ok {
		return v, true
	}
	return session.IdentitySummary{}, false
}

// SessionIDFromContext returns the cookie session ID the caller presented.
// Bearer-only callers have none.
func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSessionID).(string); ok {
		return v
	}
	return ""
}

// RoleFromContext returns the caller's role, or empty for anonymous requests.
func RoleFromContext(ctx context.Context) enums.Role {
	identity, ok := IdentityFromContext(ctx)
	if !ok {
		return enums.Role("")
	}
	return identity.Role
}

// WithIdentity injects the caller identity into the context.
func WithIdentity(ctx context.Context, identity session.IdentitySummary) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxIdentity, identity)
}

// WithSessionID injects the cookie session ID into the context.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSessionID, sessionID)
}
