package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spinwin/prizewheel-backend/pkg/db/models"
)

// ProductDTO represents the prize payload returned to clients.
type ProductDTO struct {
	ID            uuid.UUID       `json:"id"`
	Label         string          `json:"label"`
	LabelVariants []string        `json:"label_variants"`
	Description   *string         `json:"description,omitempty"`
	UnitValue     decimal.Decimal `json:"unit_value"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Label         string
	LabelVariants []string
	Description   *string
	UnitValue     decimal.Decimal
	IsActive      bool
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Label         *string
	LabelVariants *[]string
	Description   *string
	UnitValue     *decimal.Decimal
	IsActive      *bool
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	return &ProductDTO{
		ID:            product.ID,
		Label:         product.Label,
		LabelVariants: append([]string{}, product.LabelVariants...),
		Description:   product.Description,
		UnitValue:     product.UnitValue,
		IsActive:      product.IsActive,
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
}
