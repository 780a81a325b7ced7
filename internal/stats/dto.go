package stats

import (
	"github.com/google/uuid"
)

// DistributionDTO is the admin-facing distribution report: spin outcomes and
// ledger counts grouped per agent.
type DistributionDTO struct {
	Agents []AgentDistributionDTO `json:"agents"`
}

type AgentDistributionDTO struct {
	AgentID    uuid.UUID                `json:"agent_id"`
	AgentName  string                   `json:"agent_name"`
	TotalSpins int                      `json:"total_spins"`
	Wins       int                      `json:"wins"`
	Losses     int                      `json:"losses"`
	Rejections int                      `json:"rejections"`
	Products   []ProductDistributionDTO `json:"products"`
}

type ProductDistributionDTO struct {
	ProductID      uuid.UUID `json:"product_id"`
	Label          string    `json:"label"`
	TotalQty       int       `json:"total_qty"`
	AvailableQty   int       `json:"available_qty"`
	DistributedQty int       `json:"distributed_qty"`
}
