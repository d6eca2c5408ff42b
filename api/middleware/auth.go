package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/aurumjoyeria/aurum-backend/api/responses"
	pkgAuth "github.com/aurumjoyeria/aurum-backend/pkg/auth"
	"github.com/aurumjoyeria/aurum-backend/pkg/auth/session"
	"github.com/aurumjoyeria/aurum-backend/pkg/config"
	pkgerrors "github.com/aurumjoyeria/aurum-backend/pkg/errors"
	"github.com/aurumjoyeria/aurum-backend/pkg/logger"
)

type sessionResolver interface {
	Get(ctx context.Context, sessionID string) (session.IdentitySummary, error)
}

type identityLoader interface {
	Identity(ctx context.Context, userID uuid.UUID) (session.IdentitySummary, error)
}

// Identity resolves the caller from either the session cookie or a bearer
// token and seeds the request context. Requests that present neither, or
// present stale credentials, continue as anonymous; route guards decide
// whether that is acceptable.
func Identity(cfg config.Config, sessions sessionResolver, loader identityLoader, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if identity, sessionID, ok := resolveCookie(ctx, r, cfg.Session.CookieName, sessions, logg); ok {
				ctx = WithIdentity(ctx, identity)
				ctx = WithSessionID(ctx, sessionID)
				ctx = annotate(ctx, logg, identity)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if identity, ok := resolveBearer(ctx, r, cfg.JWT, loader); ok {
				ctx = WithIdentity(ctx, identity)
				ctx = annotate(ctx, logg, identity)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func resolveCookie(ctx context.Context, r *http.Request, cookieName string, sessions sessionResolver, logg *logger.Logger) (session.IdentitySummary, string, bool) {
	if sessions == nil || cookieName == "" {
		return session.IdentitySummary{}, "", false
	}
	cookie, err := r.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return session.IdentitySummary{}, "", false
	}

	identity, err := sessions.Get(ctx, cookie.Value)
	if err != nil {
		if !errors.Is(err, session.ErrNoSession) && logg != nil {
			logg.Warn(logg.WithField(ctx, "error", err.Error()), "session lookup failed")
		}
		return session.IdentitySummary{}, "", false
	}
	return identity, cookie.Value, true
}

func resolveBearer(ctx context.Context, r *http.Request, cfg config.JWTConfig, loader identityLoader) (session.IdentitySummary, bool) {
	if loader == nil {
		return session.IdentitySummary{}, false
	}
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return session.IdentitySummary{}, false
	}
	token := raw
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	if token == "" {
		return session.IdentitySummary{}, false
	}

	userID, err := pkgAuth.ParseAccessToken(cfg, token)
	if err != nil {
		return session.IdentitySummary{}, false
	}
	identity, err := loader.Identity(ctx, userID)
	if err != nil {
		return session.IdentitySummary{}, false
	}
	return identity, true
}

func annotate(ctx context.Context, logg *logger.Logger, identity session.IdentitySummary) context.Context {
	if logg == nil {
		return ctx
	}
	ctx = logg.WithUserID(ctx, identity.ID.String())
	return logg.WithActorRole(ctx, string(identity.Role))
}

// RequireUser rejects anonymous requests.
func RequireUser(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := IdentityFromContext(r.Context()); !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
