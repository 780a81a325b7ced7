package controllers

import (
	"net/http"

	"github.com/spinwin/prizewheel-backend/api/responses"
	"github.com/spinwin/prizewheel-backend/api/validators"
	authsvc "github.com/spinwin/prizewheel-backend/internal/auth"
	pkgerrors "github.com/spinwin/prizewheel-backend/pkg/errors"
	"github.com/spinwin/prizewheel-backend/pkg/logger"
)

// AdminLogin exchanges the dashboard credential for a bearer token.
func AdminLogin(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload authsvc.LoginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token, err := svc.Login(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, token)
	}
}
