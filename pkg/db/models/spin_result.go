package models

import (
	"time"

	"github.com/google/uuid"
)

// SpinResult is an append-only record of a single wheel outcome. Won spins
// reference the product that was reserved; losing spins leave ProductID nil.
type SpinResult struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	AgentID       uuid.UUID  `gorm:"column:agent_id;type:uuid;not null;index:idx_spin_results_agent_created"`
	ProductID     *uuid.UUID `gorm:"column:product_id;type:uuid"`
	PlayerName    string     `gorm:"column:player_name;not null"`
	PlayerEmail   string     `gorm:"column:player_email;not null"`
	PlayerPhone   *string    `gorm:"column:player_phone"`
	Location      *string    `gorm:"column:location"`
	Label         string     `gorm:"column:label;not null"`
	Won           bool       `gorm:"column:won;not null;default:false"`
	RejectReason  *string    `gorm:"column:reject_reason"`
	RequestedByIP *string    `gorm:"column:requested_by_ip"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime;index:idx_spin_results_agent_created"`
}
