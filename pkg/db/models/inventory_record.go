package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryRecord tracks prize stock for one product on one agent's wheel.
// TotalQty always equals AvailableQty + DistributedQty.
type InventoryRecord struct {
	AgentID        uuid.UUID `gorm:"column:agent_id;type:uuid;primaryKey"`
	ProductID      uuid.UUID `gorm:"column:product_id;type:uuid;primaryKey"`
	TotalQty       int       `gorm:"column:total_qty;not null;default:0"`
	AvailableQty   int       `gorm:"column:available_qty;not null;default:0"`
	DistributedQty int       `gorm:"column:distributed_qty;not null;default:0"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
