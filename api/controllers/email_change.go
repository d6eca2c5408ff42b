package controllers

import (
	"net/http"

	"github.com/aurumjoyeria/aurum-backend/api/middleware"
	"github.com/aurumjoyeria/aurum-backend/api/responses"
	"github.com/aurumjoyeria/aurum-backend/api/validators"
	"github.com/aurumjoyeria/aurum-backend/internal/auth"
	pkgerrors "github.com/aurumjoyeria/aurum-backend/pkg/errors"
	"github.com/aurumjoyeria/aurum-backend/pkg/logger"
)

// RequestEmailChange stages a new address and mails a code to it.
func RequestEmailChange(svc *auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := middleware.IdentityFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		var body auth.RequestEmailChangeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RequestEmailChange(r.Context(), identity.ID, body.NewEmail); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "email_change_requested"})
	}
}

// VerifyEmailChange confirms the staged address with the mailed code and
// refreshes the cookie session so the new email shows up immediately.
func VerifyEmailChange(svc *auth.Service, logg *logger.Logger) http.HandlerFunc {
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

		dto, err := svc.VerifyEmailChange(r.Context(), identity.ID, body.Code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if _, user, loadErr := svc.Profile(r.Context(), identity.ID); loadErr == nil {
			svc.SyncSession(r.Context(), middleware.SessionIDFromContext(r.Context()), user)
		}
		responses.WriteSuccess(w, dto)
	}
}
