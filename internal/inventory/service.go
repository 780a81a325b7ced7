package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spinwin/prizewheel-backend/pkg/db"
	"github.com/spinwin/prizewheel-backend/pkg/db/models"
	pkgerrors "github.com/spinwin/prizewheel-backend/pkg/errors"
	"github.com/spinwin/prizewheel-backend/pkg/logger"
	"gorm.io/gorm"
)

// Service exposes admin-facing ledger operations. The player-facing
// reservation path goes through Repository.ReserveUnit inside the spin
// transaction instead.
type Service interface {
	Assign(ctx context.Context, input AssignInput) (*RecordDTO, error)
	Restock(ctx context.Context, input RestockInput) (*RecordDTO, error)
	Adjust(ctx context.Context, input AdjustInput) (*RecordDTO, error)
	Get(ctx context.Context, agentID, productID uuid.UUID) (*RecordDTO, error)
	List(ctx context.Context) ([]RecordDTO, error)
	ListByAgent(ctx context.Context, agentID uuid.UUID) ([]RecordDTO, error)
	LowStock(ctx context.Context, threshold int) ([]RecordDTO, error)
	CheckAvailability(ctx context.Context, agentID, productID uuid.UUID) (*AvailabilityDTO, error)
}

type agentLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Agent, error)
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	agents   agentLoader
	products productLoader
	logg     *logger.Logger
}

// NewService constructs an inventory service instance.
func NewService(repo *Repository, dbClient *db.Client, agents agentLoader, products productLoader, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if agents == nil {
		return nil, fmt.Errorf("agent loader required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		dbClient: dbClient,
		agents:   agents,
		products: products,
		logg:     logg,
	}, nil
}

// Assign creates the initial allocation. Assignment is create-only; changing
// quantity afterwards goes through Restock or Adjust.
func (s *service) Assign(ctx context.Context, input AssignInput) (*RecordDTO, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a positive integer")
	}

	agent, product, err := s.loadPair(ctx, input.AgentID, input.ProductID)
	if err != nil {
		return nil, err
	}

	record := &models.InventoryRecord{
		AgentID:        input.AgentID,
		ProductID:      input.ProductID,
		TotalQty:       input.Quantity,
		AvailableQty:   input.Quantity,
		DistributedQty: 0,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "inventory already assigned for this agent and product")
		}
		return nil, fmt.Errorf("creating inventory record: %w", err)
	}

	ctx = s.logg.WithAgentID(ctx, agent.ID.String())
	s.logg.Info(s.logg.WithProductID(ctx, product.ID.String()), "inventory assigned")

	return NewRecordDTO(record, agent, product.Label), nil
}

// Restock adds delta units to an existing pair.
func (s *service) Restock(ctx context.Context, input RestockInput) (*RecordDTO, error) {
	if input.Delta <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restock delta must be a positive integer")
	}

	agent, product, err := s.loadPair(ctx, input.AgentID, input.ProductID)
	if err != nil {
		return nil, err
	}

	record, err := s.repo.Restock(ctx, input.AgentID, input.ProductID, input.Delta)
	if err != nil {
		return nil, err
	}
	return NewRecordDTO(record, agent, product.Label), nil
}

// Adjust rewrites available stock and recomputes distributed to keep the
// ledger invariant.
func (s *service) Adjust(ctx context.Context, input AdjustInput) (*RecordDTO, error) {
	if input.NewAvailable < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "available quantity cannot be negative")
	}
	if input.NewTotal != nil {
		if *input.NewTotal < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "total quantity cannot be negative")
		}
		if *input.NewTotal < input.NewAvailable {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "available quantity exceeds total quantity")
		}
	}

	agent, product, err := s.loadPair(ctx, input.AgentID, input.ProductID)
	if err != nil {
		return nil, err
	}

	record, err := s.repo.Adjust(ctx, input.AgentID, input.ProductID, input.NewAvailable, input.NewTotal)
	if err != nil {
		return nil, err
	}
	return NewRecordDTO(record, agent, product.Label), nil
}

// Get returns one ledger row with display names.
func (s *service) Get(ctx context.Context, agentID, productID uuid.UUID) (*RecordDTO, error) {
	record, err := s.repo.Find(ctx, agentID, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory record not found")
	}
	if err != nil {
		return nil, err
	}

	agent, product, err := s.loadPair(ctx, agentID, productID)
	if err != nil {
		return nil, err
	}
	return NewRecordDTO(record, agent, product.Label), nil
}

// List returns the whole ledger for the dashboard summary view.
func (s *service) List(ctx context.Context) ([]RecordDTO, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.resolveNames(ctx, records), nil
}

// LowStock returns ledger rows at or below the threshold.
func (s *service) LowStock(ctx context.Context, threshold int) ([]RecordDTO, error) {
	if threshold < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "threshold cannot be negative")
	}
	records, err := s.repo.ListBelowThreshold(ctx, threshold)
	if err != nil {
		return nil, err
	}
	return s.resolveNames(ctx, records), nil
}

// resolveNames joins display fields onto ledger rows, caching lookups since
// summary listings repeat agents and products.
func (s *service) resolveNames(ctx context.Context, records []models.InventoryRecord) []RecordDTO {
	agentRows := map[uuid.UUID]*models.Agent{}
	productLabels := map[uuid.UUID]string{}

	dtos := make([]RecordDTO, 0, len(records))
	for i := range records {
		record := &records[i]

		agent, ok := agentRows[record.AgentID]
		if !ok {
			agent, _ = s.agents.FindByID(ctx, record.AgentID)
			agentRows[record.AgentID] = agent
		}

		label, ok := productLabels[record.ProductID]
		if !ok {
			if product, err := s.products.FindByID(ctx, record.ProductID); err == nil {
				label = product.Label
			}
			productLabels[record.ProductID] = label
		}

		dtos = append(dtos, *NewRecordDTO(record, agent, label))
	}
	return dtos
}

// ListByAgent returns all ledger rows for the agent.
func (s *service) ListByAgent(ctx context.Context, agentID uuid.UUID) ([]RecordDTO, error) {
	agent, err := s.agents.FindByID(ctx, agentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "agent not found")
	}
	if err != nil {
		return nil, err
	}

	records, err := s.repo.ListByAgent(ctx, agentID)
	if err != nil {
		return nil, err
	}

	dtos := make([]RecordDTO, 0, len(records))
	for i := range records {
		label := ""
		if product, perr := s.products.FindByID(ctx, records[i].ProductID); perr == nil {
			label = product.Label
		}
		dtos = append(dtos, *NewRecordDTO(&records[i], agent, label))
	}
	return dtos, nil
}

// CheckAvailability is the advisory read used to decide whether a prize shows
// on the wheel. It never gates distribution; ReserveUnit re-checks under the
// row guard.
func (s *service) CheckAvailability(ctx context.Context, agentID, productID uuid.UUID) (*AvailabilityDTO, error) {
	record, err := s.repo.Find(ctx, agentID, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory record not found")
	}
	if err != nil {
		return nil, err
	}
	return &AvailabilityDTO{
		Available: record.AvailableQty > 0,
		Quantity:  record.AvailableQty,
	}, nil
}

func (s *service) loadPair(ctx context.Context, agentID, productID uuid.UUID) (*models.Agent, *models.Product, error) {
	agent, err := s.agents.FindByID(ctx, agentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "agent not found")
	}
	if err != nil {
		return nil, nil, err
	}

	product, err := s.products.FindByID(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err != nil {
		return nil, nil, err
	}
	return agent, product, nil
}
