package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/spinwin/prizewheel-backend/api/responses"
	"github.com/spinwin/prizewheel-backend/api/validators"
	inventorysvc "github.com/spinwin/prizewheel-backend/internal/inventory"
	pkgerrors "github.com/spinwin/prizewheel-backend/pkg/errors"
	"github.com/spinwin/prizewheel-backend/pkg/logger"
)

type assignInventoryRequest struct {
	AgentID   string `json:"agent_id" validate:"required,uuid"`
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type restockInventoryRequest struct {
	AgentID   string `json:"agent_id" validate:"required,uuid"`
	ProductID string `json:"product_id" validate:"required,uuid"`
	Delta     int    `json:"delta" validate:"required,gt=0"`
}

type adjustInventoryRequest struct {
	AgentID      string `json:"agent_id" validate:"required,uuid"`
	ProductID    string `json:"product_id" validate:"required,uuid"`
	NewAvailable int    `json:"new_available" validate:"gte=0"`
	NewTotal     *int   `json:"new_total,omitempty" validate:"omitempty,gte=0"`
}

// InventoryAssign seeds the ledger row for an (agent, product) pair.
func InventoryAssign(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var payload assignInventoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		agentID, err := validators.ParsePathUUID(payload.AgentID, "agent_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := validators.ParsePathUUID(payload.ProductID, "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Assign(r.Context(), inventorysvc.AssignInput{
			AgentID:   agentID,
			ProductID: productID,
			Quantity:  payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

// InventoryList returns every ledger row, or one agent's rows when the
// agent_id query param is set.
func InventoryList(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		agentID, err := validators.ParseQueryUUID(r, "agent_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var records []inventorysvc.RecordDTO
		if agentID != nil {
			records, err = svc.ListByAgent(r.Context(), *agentID)
		} else {
			records, err = svc.List(r.Context())
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"records": records})
	}
}

// InventoryLowStock lists rows at or below the threshold query param.
func InventoryLowStock(svc inventorysvc.Service, defaultThreshold int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		threshold, err := validators.ParseQueryInt(r, "threshold", defaultThreshold, 0, 1000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, err := svc.LowStock(r.Context(), threshold)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"threshold": threshold, "records": records})
	}
}

func InventoryRestock(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var payload restockInventoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		agentID, err := validators.ParsePathUUID(payload.AgentID, "agent_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := validators.ParsePathUUID(payload.ProductID, "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Restock(r.Context(), inventorysvc.RestockInput{
			AgentID:   agentID,
			ProductID: productID,
			Delta:     payload.Delta,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

func InventoryAdjust(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var payload adjustInventoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		agentID, err := validators.ParsePathUUID(payload.AgentID, "agent_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := validators.ParsePathUUID(payload.ProductID, "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Adjust(r.Context(), inventorysvc.AdjustInput{
			AgentID:      agentID,
			ProductID:    productID,
			NewAvailable: payload.NewAvailable,
			NewTotal:     payload.NewTotal,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

// InventoryGet fetches one ledger row by path pair.
func InventoryGet(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		agentID, err := validators.ParsePathUUID(chi.URLParam(r, "agentID"), "agentID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Get(r.Context(), agentID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

// InventoryAvailability is the public availability probe the wheel frontend
// calls before animating a win.
func InventoryAvailability(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		agentID, err := validators.ParsePathUUID(chi.URLParam(r, "agentID"), "agentID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		availability, err := svc.CheckAvailability(r.Context(), agentID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, availability)
	}
}
