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

// ProfileGet returns the caller's account, fresh from the database. The
// cookie session is re-synced so a stale snapshot heals on the next read.
func ProfileGet(svc *auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := middleware.IdentityFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		dto, user, err := svc.Profile(r.Context(), identity.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		svc.SyncSession(r.Context(), middleware.SessionIDFromContext(r.Context()), user)
		responses.WriteSuccess(w, dto)
	}
}

// ProfileUpdate renames the caller and pushes the new snapshot into the
// cookie session so the change is visible on the next request.
func ProfileUpdate(svc *auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := middleware.IdentityFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		var body auth.UpdateProfileRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, user, err := svc.UpdateProfile(r.Context(), identity.ID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		svc.SyncSession(r.Context(), middleware.SessionIDFromContext(r.Context()), user)
		responses.WriteSuccess(w, dto)
	}
}
