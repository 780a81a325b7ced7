package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/spinwin/prizewheel-backend/api/responses"
	"github.com/spinwin/prizewheel-backend/api/validators"
	resultsvc "github.com/spinwin/prizewheel-backend/internal/results"
	pkgerrors "github.com/spinwin/prizewheel-backend/pkg/errors"
	"github.com/spinwin/prizewheel-backend/pkg/logger"
	"github.com/spinwin/prizewheel-backend/pkg/pagination"
)

// ResultsList pages the spin audit trail, newest first. agent_id narrows to
// one booth; cursor and limit follow the shared pagination scheme.
func ResultsList(svc resultsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "results service unavailable"))
			return
		}

		agentID, err := validators.ParseQueryUUID(r, "agent_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), agentID, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

func ResultGet(svc resultsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "results service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "resultID"), "resultID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func ResultDelete(svc resultsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "results service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "resultID"), "resultID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ResultsPurge deletes every result row for one agent. agent_id is required
// so a missing query param can never wipe the whole table.
func ResultsPurge(svc resultsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "results service unavailable"))
			return
		}

		agentID, err := validators.ParseQueryUUID(r, "agent_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if agentID == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "agent_id query parameter is required"))
			return
		}

		deleted, err := svc.DeleteByAgent(r.Context(), *agentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"deleted": deleted})
	}
}
