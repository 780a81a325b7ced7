package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product represents a prize that can appear on a wheel. Label is the
// canonical name; LabelVariants holds alternate spellings the wheel frontend
// may submit (casing, localization) that resolve to the same prize.
type Product struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Label         string          `gorm:"column:label;uniqueIndex;not null"`
	LabelVariants pq.StringArray  `gorm:"column:label_variants;type:text[];not null"`
	Description   *string         `gorm:"column:description"`
	UnitValue     decimal.Decimal `gorm:"column:unit_value;type:numeric(12,2);not null;default:0"`
	IsActive      bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
