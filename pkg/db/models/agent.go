package models

import (
	"time"

	"github.com/google/uuid"
)

// Agent represents a promotion operator running a prize wheel.
type Agent struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	Name        string            `gorm:"column:name;not null"`
	Slug        string            `gorm:"column:slug;uniqueIndex;not null"`
	Location    *string           `gorm:"column:location"`
	IsActive    bool              `gorm:"column:is_active;not null;default:true"`
	Inventories []InventoryRecord `gorm:"foreignKey:AgentID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
