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

// ChangePassword swaps the caller's password after checking the current one.
func ChangePassword(svc *auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := middleware.IdentityFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		var body auth.ChangePasswordRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ChangePassword(r.Context(), identity.ID, body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "password_changed"})
	}
}

// DeleteAccount removes the caller's account and ends the browser session.
func DeleteAccount(svc *auth.Service, cfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := middleware.IdentityFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		if err := svc.DeleteAccount(r.Context(), identity.ID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if sessionID := middleware.SessionIDFromContext(r.Context()); sessionID != "" {
			if err := svc.Logout(r.Context(), sessionID); err != nil && logg != nil {
				logg.Warn(r.Context(), "session cleanup after delete failed")
			}
		}
		clearSessionCookie(w, cfg)
		responses.WriteSuccess(w, map[string]string{"status": "account_deleted"})
	}
}
