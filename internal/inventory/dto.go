package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/spinwin/prizewheel-backend/pkg/db/models"
)

// RecordDTO is the ledger row returned to dashboard clients, with the agent
// and product display names joined in at read time.
type RecordDTO struct {
	AgentID        uuid.UUID `json:"agent_id"`
	AgentName      string    `json:"agent_name,omitempty"`
	AgentLocation  *string   `json:"agent_location,omitempty"`
	ProductID      uuid.UUID `json:"product_id"`
	ProductLabel   string    `json:"product_label,omitempty"`
	TotalQty       int       `json:"total_qty"`
	AvailableQty   int       `json:"available_qty"`
	DistributedQty int       `json:"distributed_qty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// AvailabilityDTO is the advisory stock answer for one pair. It may be stale
// relative to in-flight reservations.
type AvailabilityDTO struct {
	Available bool `json:"available"`
	Quantity  int  `json:"quantity"`
}

// AssignInput creates the initial allocation for an (agent, product) pair.
type AssignInput struct {
	AgentID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int
}

// RestockInput adds headroom to an existing pair.
type RestockInput struct {
	AgentID   uuid.UUID
	ProductID uuid.UUID
	Delta     int
}

// AdjustInput is the manual correction path. NewTotal is optional; when nil
// the current total is kept and distributed is recomputed.
type AdjustInput struct {
	AgentID      uuid.UUID
	ProductID    uuid.UUID
	NewAvailable int
	NewTotal     *int
}

// NewRecordDTO builds a DTO from the persisted row and optional display fields.
func NewRecordDTO(record *models.InventoryRecord, agent *models.Agent, productLabel string) *RecordDTO {
	var agentName string
	var agentLocation *string
	if agent != nil {
		agentName = agent.Name
		agentLocation = agent.Location
	}
	return &RecordDTO{
		AgentID:        record.AgentID,
		AgentName:      agentName,
		AgentLocation:  agentLocation,
		ProductID:      record.ProductID,
		ProductLabel:   productLabel,
		TotalQty:       record.TotalQty,
		AvailableQty:   record.AvailableQty,
		DistributedQty: record.DistributedQty,
		UpdatedAt:      record.UpdatedAt,
	}
}
