package controllers

import (
	"fmt"
	"net/http"

	"github.com/aurumjoyeria/aurum-backend/api/middleware"
	"github.com/aurumjoyeria/aurum-backend/api/responses"
	"github.com/aurumjoyeria/aurum-backend/api/validators"
	"github.com/aurumjoyeria/aurum-backend/internal/auth"
	"github.com/aurumjoyeria/aurum-backend/pkg/config"
	pkgerrors "github.com/aurumjoyeria/aurum-backend/pkg/errors"
	"github.com/aurumjoyeria/aurum-backend/pkg/logger"
)

// VerifyEmailLink handles the click-through from the verification email.
// The browser lands here unauthenticated, so the outcome is communicated by
// redirecting into the storefront rather than with a JSON body.
func VerifyEmailLink(svc *auth.Service, app config.AppConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")

		status := auth.VerifyLinkError
		if code != "" {
			var err error
			status, err = svc.VerifyEmailByLink(r.Context(), code)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		target := fmt.Sprintf("%s/profile?verified=%s", app.FrontendBaseURL, status)
		http.Redirect(w, r, target, http.StatusSeeOther)
	}
}

// VerifyEmailCode verifies the caller's pending code pasted into the UI.
func VerifyEmailCode(svc *auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := middleware.IdentityFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		var body auth.VerifyCodeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.VerifyEmailCode(r.Context(), identity.ID, body.Code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// ResendVerification reissues the caller's verification code and email.
func ResendVerification(svc *auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := middleware.IdentityFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		if err := svc.ResendVerification(r.Context(), identity.ID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "verification_sent"})
	}
}
