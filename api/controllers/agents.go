package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/spinwin/prizewheel-backend/api/responses"
	"github.com/spinwin/prizewheel-backend/api/validators"
	agentsvc "github.com/spinwin/prizewheel-backend/internal/agents"
	pkgerrors "github.com/spinwin/prizewheel-backend/pkg/errors"
	"github.com/spinwin/prizewheel-backend/pkg/logger"
)

type createAgentRequest struct {
	Name     string  `json:"name" validate:"required,min=2,max=120"`
	Slug     string  `json:"slug" validate:"omitempty,max=120"`
	Location *string `json:"location,omitempty" validate:"omitempty,max=160"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type updateAgentRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Slug     *string `json:"slug,omitempty" validate:"omitempty,max=120"`
	Location *string `json:"location,omitempty" validate:"omitempty,max=160"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func AgentsList(svc agentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "agent service unavailable"))
			return
		}

		agents, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"agents": agents})
	}
}

func AgentCreate(svc agentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "agent service unavailable"))
			return
		}

		var payload createAgentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := agentsvc.CreateAgentInput{
			Name:     payload.Name,
			Slug:     payload.Slug,
			Location: payload.Location,
			IsActive: true,
		}
		if payload.IsActive != nil {
			input.IsActive = *payload.IsActive
		}

		agent, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, agent)
	}
}

func AgentGet(svc agentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "agent service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "agentID"), "agentID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		agent, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, agent)
	}
}

func AgentUpdate(svc agentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "agent service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "agentID"), "agentID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateAgentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		agent, err := svc.Update(r.Context(), id, agentsvc.UpdateAgentInput{
			Name:     payload.Name,
			Slug:     payload.Slug,
			Location: payload.Location,
			IsActive: payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, agent)
	}
}

func AgentDelete(svc agentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "agent service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "agentID"), "agentID")
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
