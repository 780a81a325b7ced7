package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	spinsvc "github.com/spinwin/prizewheel-backend/internal/spins"
	pkgerrors "github.com/spinwin/prizewheel-backend/pkg/errors"
	"github.com/spinwin/prizewheel-backend/pkg/logger"
)

type stubSpinService struct {
	submitted *spinsvc.SubmitInput
	outcome   *spinsvc.OutcomeDTO
	wheel     *spinsvc.WheelDTO
	err       error
}

func (s *stubSpinService) Submit(ctx context.Context, input spinsvc.SubmitInput) (*spinsvc.OutcomeDTO, error) {
	s.submitted = &input
	if s.err != nil {
		return nil, s.err
	}
	return s.outcome, nil
}

func (s *stubSpinService) Wheel(ctx context.Context, agentID uuid.UUID) (*spinsvc.WheelDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.wheel, nil
}

func newControllerLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestSpinSubmit(t *testing.T) {
	logg := newControllerLogger()
	agentID := uuid.New()

	t.Run("created on win", func(t *testing.T) {
		resultID := uuid.New()
		stub := &stubSpinService{outcome: &spinsvc.OutcomeDTO{ResultID: resultID, Won: true, Label: "Hat"}}
		body := `{"agent_id":"` + agentID.String() + `","label":"Hat","name":"Pat Doe","email":"player@example.com"}`
		req := httptest.NewRequest(http.MethodPost, "/api/public/spins", strings.NewReader(body))
		req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
		rec := httptest.NewRecorder()

		SpinSubmit(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.submitted == nil {
			t.Fatalf("expected service to be invoked")
		}
		if stub.submitted.AgentID != agentID {
			t.Fatalf("agent id mismatch: %s", stub.submitted.AgentID)
		}
		if stub.submitted.RequestIP != "203.0.113.9" {
			t.Fatalf("expected forwarded ip, got %q", stub.submitted.RequestIP)
		}
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		stub := &stubSpinService{}
		req := httptest.NewRequest(http.MethodPost, "/api/public/spins", strings.NewReader(`{"label":"Hat"}`))
		rec := httptest.NewRecorder()

		SpinSubmit(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if stub.submitted != nil {
			t.Fatalf("service must not run on invalid payload")
		}
	})

	t.Run("maps depleted stock to 400 with public message", func(t *testing.T) {
		stub := &stubSpinService{err: pkgerrors.New(pkgerrors.CodeInsufficientStock, "no units left")}
		body := `{"agent_id":"` + agentID.String() + `","label":"Hat","name":"Pat Doe","email":"player@example.com"}`
		req := httptest.NewRequest(http.MethodPost, "/api/public/spins", strings.NewReader(body))
		rec := httptest.NewRecorder()

		SpinSubmit(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		var envelope struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if envelope.Error.Code != string(pkgerrors.CodeInsufficientStock) {
			t.Fatalf("unexpected code %q", envelope.Error.Code)
		}
		if envelope.Error.Message != "No prize available" {
			t.Fatalf("unexpected message %q", envelope.Error.Message)
		}
	})

	t.Run("nil service", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/public/spins", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()

		SpinSubmit(nil, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})
}

func TestSpinWheel(t *testing.T) {
	logg := newControllerLogger()
	agentID := uuid.New()

	makeRequest := func(stub *stubSpinService, raw string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/public/wheel/"+raw, nil)
		routeCtx := chi.NewRouteContext()
		routeCtx.URLParams.Add("agentID", raw)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
		rec := httptest.NewRecorder()
		SpinWheel(stub, logg).ServeHTTP(rec, req)
		return rec
	}

	t.Run("success", func(t *testing.T) {
		stub := &stubSpinService{wheel: &spinsvc.WheelDTO{AgentID: agentID, AgentName: "Booth A"}}
		rec := makeRequest(stub, agentID.String())
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("invalid agent id", func(t *testing.T) {
		rec := makeRequest(&stubSpinService{}, "not-a-uuid")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("unknown agent", func(t *testing.T) {
		stub := &stubSpinService{err: pkgerrors.New(pkgerrors.CodeNotFound, "agent not found")}
		rec := makeRequest(stub, agentID.String())
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
