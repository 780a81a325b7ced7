package controllers

import (
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/spinwin/prizewheel-backend/api/responses"
	"github.com/spinwin/prizewheel-backend/api/validators"
	spinsvc "github.com/spinwin/prizewheel-backend/internal/spins"
	pkgerrors "github.com/spinwin/prizewheel-backend/pkg/errors"
	"github.com/spinwin/prizewheel-backend/pkg/logger"
)

type submitSpinRequest struct {
	AgentID  string  `json:"agent_id" validate:"required,uuid"`
	Label    string  `json:"label" validate:"required,max=120"`
	Name     string  `json:"name" validate:"required,min=2,max=120"`
	Email    string  `json:"email" validate:"required,email"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Location *string `json:"location,omitempty" validate:"omitempty,max=160"`
}

// SpinSubmit records a wheel outcome from the public frontend. Wins reserve a
// unit of the matched prize; rejections surface as a non-retryable 400.
func SpinSubmit(svc spinsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "spin service unavailable"))
			return
		}

		var payload submitSpinRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		agentID, err := validators.ParsePathUUID(payload.AgentID, "agent_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		outcome, err := svc.Submit(r.Context(), spinsvc.SubmitInput{
			AgentID:     agentID,
			Label:       payload.Label,
			PlayerName:  payload.Name,
			PlayerEmail: payload.Email,
			PlayerPhone: payload.Phone,
			Location:    payload.Location,
			RequestIP:   requestIP(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, outcome)
	}
}

// SpinWheel returns the stocked prize list for one agent's wheel.
func SpinWheel(svc spinsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "spin service unavailable"))
			return
		}

		agentID, err := validators.ParsePathUUID(chi.URLParam(r, "agentID"), "agentID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		wheel, err := svc.Wheel(r.Context(), agentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, wheel)
	}
}

// requestIP prefers proxy headers so rate limit audit fields match what the
// edge saw.
func requestIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return strings.TrimSpace(real)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
