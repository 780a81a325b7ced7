package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/spinwin/prizewheel-backend/pkg/db"
	"github.com/spinwin/prizewheel-backend/pkg/db/models"
	pkgerrors "github.com/spinwin/prizewheel-backend/pkg/errors"
	"github.com/spinwin/prizewheel-backend/pkg/logger"
	"gorm.io/gorm"
)

// Service exposes prize product management operations.
type Service interface {
	Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	List(ctx context.Context) ([]ProductDTO, error)
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService constructs a product service instance.
func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	label := strings.TrimSpace(input.Label)
	if label == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "label is required")
	}
	if input.UnitValue.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit_value cannot be negative")
	}
	variants, err := normalizeVariants(label, input.LabelVariants)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:            uuid.New(),
		Label:         label,
		LabelVariants: pq.StringArray(variants),
		Description:   input.Description,
		UnitValue:     input.UnitValue,
		IsActive:      input.IsActive,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product label already exists")
		}
		return nil, fmt.Errorf("creating product: %w", err)
	}

	s.logg.Info(s.logg.WithProductID(ctx, product.ID.String()), "product created")
	return NewProductDTO(product), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err != nil {
		return nil, err
	}

	if input.Label != nil {
		label := strings.TrimSpace(*input.Label)
		if label == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "label cannot be blank")
		}
		product.Label = label
	}
	if input.LabelVariants != nil {
		variants, err := normalizeVariants(product.Label, *input.LabelVariants)
		if err != nil {
			return nil, err
		}
		product.LabelVariants = pq.StringArray(variants)
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.UnitValue != nil {
		if input.UnitValue.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit_value cannot be negative")
		}
		product.UnitValue = *input.UnitValue
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := s.repo.Save(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product label already exists")
		}
		return nil, fmt.Errorf("updating product: %w", err)
	}
	return NewProductDTO(product), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err != nil {
		return err
	}
	s.logg.Info(s.logg.WithProductID(ctx, id.String()), "product deleted")
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err != nil {
		return nil, err
	}
	return NewProductDTO(product), nil
}

func (s *service) List(ctx context.Context) ([]ProductDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewProductDTO(&rows[i]))
	}
	return dtos, nil
}

// normalizeVariants trims and dedupes accepted label spellings, keeping the
// canonical label out of the variant list.
func normalizeVariants(label string, variants []string) ([]string, error) {
	seen := map[string]struct{}{strings.ToLower(label): {}}
	out := make([]string, 0, len(variants))
	for _, variant := range variants {
		v := strings.TrimSpace(variant)
		if v == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "label variants cannot be blank")
		}
		key := strings.ToLower(v)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out, nil
}
