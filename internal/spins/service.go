package spins

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"github.com/spinwin/prizewheel-backend/internal/inventory"
	"github.com/spinwin/prizewheel-backend/internal/results"
	"github.com/spinwin/prizewheel-backend/pkg/config"
	"github.com/spinwin/prizewheel-backend/pkg/db"
	"github.com/spinwin/prizewheel-backend/pkg/db/models"
	pkgerrors "github.com/spinwin/prizewheel-backend/pkg/errors"
	"github.com/spinwin/prizewheel-backend/pkg/logger"
	"github.com/spinwin/prizewheel-backend/pkg/metrics"
	"gorm.io/gorm"
)

// Service orchestrates a spin submission: resolve the label, reserve stock
// for wins, and append the result row in the same transaction.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*OutcomeDTO, error)
	Wheel(ctx context.Context, agentID uuid.UUID) (*WheelDTO, error)
}

type labelResolver interface {
	Resolve(ctx context.Context, label string) (*models.Product, bool, error)
}

type agentLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Agent, error)
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	dbClient      *db.Client
	inventoryRepo *inventory.Repository
	resultsRepo   *results.Repository
	resolver      labelResolver
	agents        agentLoader
	products      productLoader
	spinMetrics   *metrics.SpinMetrics
	cfg           config.SpinConfig
	logg          *logger.Logger
}

// NewService constructs the spin orchestration service.
func NewService(
	dbClient *db.Client,
	inventoryRepo *inventory.Repository,
	resultsRepo *results.Repository,
	resolver labelResolver,
	agents agentLoader,
	products productLoader,
	spinMetrics *metrics.SpinMetrics,
	cfg config.SpinConfig,
	logg *logger.Logger,
) (Service, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if inventoryRepo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if resultsRepo == nil {
		return nil, fmt.Errorf("results repository required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("label resolver required")
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
	if cfg.ReserveAttempts <= 0 {
		cfg.ReserveAttempts = 1
	}
	return &service{
		dbClient:      dbClient,
		inventoryRepo: inventoryRepo,
		resultsRepo:   resultsRepo,
		resolver:      resolver,
		agents:        agents,
		products:      products,
		spinMetrics:   spinMetrics,
		cfg:           cfg,
		logg:          logg,
	}, nil
}

// Submit records a spin outcome. Winning labels reserve one unit of stock and
// append the result row inside the same transaction; losing labels only
// append. An out-of-stock prize is a business rejection, never retried.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*OutcomeDTO, error) {
	email := strings.TrimSpace(strings.ToLower(input.PlayerEmail))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "player email is required")
	}
	input.PlayerName = strings.TrimSpace(input.PlayerName)
	if input.PlayerName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "player name is required")
	}

	agent, err := s.agents.FindByID(ctx, input.AgentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "agent not found")
	}
	if err != nil {
		return nil, err
	}
	if !agent.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "agent not found")
	}

	ctx = s.logg.WithAgentID(ctx, agent.ID.String())
	ctx = s.logg.WithOperation(ctx, "spin_submit")

	product, isWin, err := s.resolver.Resolve(ctx, input.Label)
	if err != nil {
		return nil, err
	}
	if !isWin {
		return s.recordLoss(ctx, agent, input, email)
	}

	outcome, err := s.reserveAndRecord(ctx, agent, product, input, email)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeInsufficientStock {
			s.spinMetrics.IncStockDepleted(agent.Slug)
			s.spinMetrics.IncOutcome(agent.Slug, metrics.OutcomeRejected)
			s.recordRejection(ctx, agent, product, input, email)
		}
		return nil, err
	}

	s.spinMetrics.IncOutcome(agent.Slug, metrics.OutcomeWon)
	return outcome, nil
}

// reserveAndRecord runs the reservation transaction, retrying a bounded
// number of times on transient datastore errors only. Business rejections
// surface immediately: retrying cannot change the stock state that produced
// them.
func (s *service) reserveAndRecord(ctx context.Context, agent *models.Agent, product *models.Product, input SubmitInput, email string) (*OutcomeDTO, error) {
	backoff := retry.WithMaxRetries(uint64(s.cfg.ReserveAttempts-1), retry.NewConstant(s.reserveBackoff()))

	var outcome *OutcomeDTO
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		start := time.Now()
		txErr := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
			record, rerr := s.inventoryRepo.WithTx(tx).ReserveUnit(ctx, agent.ID, product.ID)
			if rerr != nil {
				return rerr
			}

			result := &models.SpinResult{
				ID:            uuid.New(),
				AgentID:       agent.ID,
				ProductID:     &product.ID,
				PlayerName:    input.PlayerName,
				PlayerEmail:   email,
				PlayerPhone:   input.PlayerPhone,
				Location:      resultLocation(agent, input),
				Label:         product.Label,
				Won:           true,
				RequestedByIP: optionalString(input.RequestIP),
			}
			if rerr := s.resultsRepo.WithTx(tx).Create(ctx, result); rerr != nil {
				return rerr
			}

			remaining := record.AvailableQty
			distributed := record.DistributedQty
			outcome = &OutcomeDTO{
				ResultID:           result.ID,
				Won:                true,
				Label:              product.Label,
				ProductID:          &product.ID,
				RemainingAvailable: &remaining,
				Distributed:        &distributed,
			}
			return nil
		})
		s.spinMetrics.ObserveReserveDuration(agent.Slug, time.Since(start))

		if txErr == nil {
			return nil
		}
		if pkgerrors.Retryable(txErr) {
			return retry.RetryableError(txErr)
		}
		// raw driver errors carry no code; classify before giving up so
		// lock timeouts and dropped connections still get their retries
		if pkgerrors.As(txErr) == nil && db.IsTransient(txErr) {
			return retry.RetryableError(pkgerrors.Wrap(pkgerrors.CodeDependency, txErr, "transient reservation failure"))
		}
		return txErr
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		s.logg.Error(s.logg.WithProductID(ctx, product.ID.String()), "spin reservation failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserving prize stock")
	}
	return outcome, nil
}

// recordLoss appends the losing spin. Losing spins never touch the ledger.
func (s *service) recordLoss(ctx context.Context, agent *models.Agent, input SubmitInput, email string) (*OutcomeDTO, error) {
	result := &models.SpinResult{
		ID:            uuid.New(),
		AgentID:       agent.ID,
		PlayerName:    input.PlayerName,
		PlayerEmail:   email,
		PlayerPhone:   input.PlayerPhone,
		Location:      resultLocation(agent, input),
		Label:         strings.TrimSpace(input.Label),
		Won:           false,
		RequestedByIP: optionalString(input.RequestIP),
	}
	if err := s.resultsRepo.Create(ctx, result); err != nil {
		return nil, fmt.Errorf("recording losing spin: %w", err)
	}
	s.spinMetrics.IncOutcome(agent.Slug, metrics.OutcomeLost)
	return &OutcomeDTO{
		ResultID: result.ID,
		Won:      false,
		Label:    result.Label,
	}, nil
}

// recordRejection logs the depleted-stock outcome. Best effort: the
// rejection already stands whether or not this row lands.
func (s *service) recordRejection(ctx context.Context, agent *models.Agent, product *models.Product, input SubmitInput, email string) {
	reason := "insufficient_stock"
	result := &models.SpinResult{
		ID:            uuid.New(),
		AgentID:       agent.ID,
		ProductID:     &product.ID,
		PlayerName:    input.PlayerName,
		PlayerEmail:   email,
		PlayerPhone:   input.PlayerPhone,
		Location:      resultLocation(agent, input),
		Label:         product.Label,
		Won:           false,
		RejectReason:  &reason,
		RequestedByIP: optionalString(input.RequestIP),
	}
	if err := s.resultsRepo.Create(ctx, result); err != nil {
		s.logg.Warn(ctx, "failed to record rejected spin")
	}
}

// Wheel returns the stocked prizes for the agent's wheel.
func (s *service) Wheel(ctx context.Context, agentID uuid.UUID) (*WheelDTO, error) {
	agent, err := s.agents.FindByID(ctx, agentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "agent not found")
	}
	if err != nil {
		return nil, err
	}
	if !agent.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "agent not found")
	}

	records, err := s.inventoryRepo.ListAvailableByAgent(ctx, agentID)
	if err != nil {
		return nil, err
	}

	wheel := &WheelDTO{
		AgentID:   agent.ID,
		AgentName: agent.Name,
		Prizes:    make([]WheelPrizeDTO, 0, len(records)),
	}
	for i := range records {
		product, perr := s.products.FindByID(ctx, records[i].ProductID)
		if errors.Is(perr, gorm.ErrRecordNotFound) {
			continue
		}
		if perr != nil {
			return nil, perr
		}
		if !product.IsActive {
			continue
		}
		wheel.Prizes = append(wheel.Prizes, WheelPrizeDTO{
			ProductID:    product.ID,
			Label:        product.Label,
			AvailableQty: records[i].AvailableQty,
		})
	}
	return wheel, nil
}

func (s *service) reserveBackoff() time.Duration {
	if s.cfg.ReserveBackoff > 0 {
		return s.cfg.ReserveBackoff
	}
	return 50 * time.Millisecond
}

// resultLocation prefers the location the player submitted, falling back to
// the booth's configured location.
func resultLocation(agent *models.Agent, input SubmitInput) *string {
	if input.Location != nil {
		if v := strings.TrimSpace(*input.Location); v != "" {
			return &v
		}
	}
	return agent.Location
}

func optionalString(value string) *string {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}
	return &v
}
