package controllers

import (
	"net/http"

	"github.com/spinwin/prizewheel-backend/api/responses"
	"github.com/spinwin/prizewheel-backend/api/validators"
	statsvc "github.com/spinwin/prizewheel-backend/internal/stats"
	pkgerrors "github.com/spinwin/prizewheel-backend/pkg/errors"
	"github.com/spinwin/prizewheel-backend/pkg/logger"
)

// StatsDistribution reports per-agent outcome counts and prize distribution.
// The optional agent_id query param narrows the report to one booth.
func StatsDistribution(svc statsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stats service unavailable"))
			return
		}

		agentID, err := validators.ParseQueryUUID(r, "agent_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		distribution, err := svc.Distribution(r.Context(), agentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, distribution)
	}
}
