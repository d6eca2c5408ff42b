package controllers

import (
	"net/http"

	"github.com/aurumjoyeria/aurum-backend/api/middleware"
	"github.com/aurumjoyeria/aurum-backend/api/responses"
	"github.com/aurumjoyeria/aurum-backend/api/validators"
	"github.com/aurumjoyeria/aurum-backend/internal/auth"
	"github.com/aurumjoyeria/aurum-backend/pkg/config"
	pkgerrors "github.com/aurumjoyeria/aurum-backend/pkg/errors"
	"github.com/aurumjoyeria/aurum-backend/pkg/logger"
)

// setSessionCookie installs the opaque browser session. The cookie is the
// only place the session ID travels; responses never include it.
func setSessionCookie(w http.ResponseWriter, cfg config.SessionConfig, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    sessionID,
		Path:     "/",
		Domain:   cfg.CookieDomain,
		MaxAge:   int(cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, cfg config.SessionConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Path:     "/",
		Domain:   cfg.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// AuthLogin wires the login endpoint into the HTTP layer.
func AuthLogin(svc *auth.Service, cfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setSessionCookie(w, cfg, result.SessionID)
		responses.WriteSuccess(w, result.TokenResponse)
	}
}

// AuthLogout tears down the browser session and clears the cookie. Callers
// holding only a bearer token simply see it expire.
func AuthLogout(svc *auth.Service, cfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if sessionID := middleware.SessionIDFromContext(r.Context()); sessionID != "" {
			if err := svc.Logout(r.Context(), sessionID); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		clearSessionCookie(w, cfg)
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}
