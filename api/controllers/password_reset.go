package controllers

import (
	"net/http"

	"github.com/aurumjoyeria/aurum-backend/api/responses"
	"github.com/aurumjoyeria/aurum-backend/api/validators"
	"github.com/aurumjoyeria/aurum-backend/internal/auth"
	"github.com/aurumjoyeria/aurum-backend/pkg/logger"
)

// RequestPasswordReset always answers the same way so callers cannot probe
// which addresses have accounts.
func RequestPasswordReset(svc *auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body auth.RequestPasswordResetRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		svc.RequestPasswordReset(r.Context(), body.Email)
		responses.WriteSuccess(w, map[string]string{"status": "reset_requested"})
	}
}

// ResetPassword completes the recovery flow with the emailed code.
func ResetPassword(svc *auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body auth.ResetPasswordRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ResetPassword(r.Context(), body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "password_reset"})
	}
}
