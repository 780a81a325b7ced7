package cron

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spinwin/prizewheel-backend/pkg/db/models"
	"github.com/spinwin/prizewheel-backend/pkg/logger"
	"github.com/spinwin/prizewheel-backend/pkg/metrics"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

const defaultLowStockThreshold = 5

type lowStockLister interface {
	ListBelowThreshold(ctx context.Context, threshold int) ([]models.InventoryRecord, error)
}

type agentNamer interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Agent, error)
}

type productNamer interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type LowStockJobParams struct {
	Logger    *logger.Logger
	Inventory lowStockLister
	Agents    agentNamer
	Products  productNamer
	Metrics   *metrics.InventoryMetrics
	Threshold int
}

// NewLowStockJob builds the sweep that flags prize stock running out. It only
// reports; restocking stays with the operators.
func NewLowStockJob(params LowStockJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory lister required")
	}
	if params.Agents == nil {
		return nil, fmt.Errorf("agent loader required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	threshold := params.Threshold
	if threshold <= 0 {
		threshold = defaultLowStockThreshold
	}
	return &lowStockJob{
		logg:      params.Logger,
		inventory: params.Inventory,
		agents:    params.Agents,
		products:  params.Products,
		metrics:   params.Metrics,
		threshold: threshold,
	}, nil
}

type lowStockJob struct {
	logg      *logger.Logger
	inventory lowStockLister
	agents    agentNamer
	products  productNamer
	metrics   *metrics.InventoryMetrics
	threshold int
}

func (j *lowStockJob) Name() string { return "low-stock-sweep" }

func (j *lowStockJob) Run(ctx context.Context) error {
	records, err := j.inventory.ListBelowThreshold(ctx, j.threshold)
	if err != nil {
		return fmt.Errorf("list low stock: %w", err)
	}
	j.metrics.SetLowStockCount(len(records))

	if len(records) == 0 {
		j.logg.Info(ctx, "no inventory at or below threshold")
		return nil
	}

	var lookupErrs error
	for i := range records {
		record := records[i]
		agentName, productLabel := record.AgentID.String(), record.ProductID.String()

		agent, err := j.agents.FindByID(ctx, record.AgentID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			lookupErrs = multierr.Append(lookupErrs, fmt.Errorf("load agent %s: %w", record.AgentID, err))
		} else if agent != nil {
			agentName = agent.Name
		}

		product, err := j.products.FindByID(ctx, record.ProductID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			lookupErrs = multierr.Append(lookupErrs, fmt.Errorf("load product %s: %w", record.ProductID, err))
		} else if product != nil {
			productLabel = product.Label
		}

		logCtx := j.logg.WithFields(ctx, map[string]any{
			"agent":       agentName,
			"product":     productLabel,
			"available":   record.AvailableQty,
			"total":       record.TotalQty,
			"distributed": record.DistributedQty,
			"threshold":   j.threshold,
		})
		j.logg.Warn(logCtx, "prize stock at or below threshold")
	}
	return lookupErrs
}
