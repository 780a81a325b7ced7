package stats

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	pkgerrors "github.com/spinwin/prizewheel-backend/pkg/errors"
	"github.com/spinwin/prizewheel-backend/pkg/logger"
)

type Service interface {
	Distribution(ctx context.Context, agentID *uuid.UUID) (*DistributionDTO, error)
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("stats repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

// Distribution merges spin outcome counts with the ledger view. Agents with
// assigned inventory appear even before their first spin, and vice versa.
func (s *service) Distribution(ctx context.Context, agentID *uuid.UUID) (*DistributionDTO, error) {
	var (
		outcomes []outcomeRow
		products []productRow
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.repo.OutcomeCounts(gctx, agentID)
		if err != nil {
			return fmt.Errorf("querying spin outcome counts: %w", err)
		}
		outcomes = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.repo.ProductDistribution(gctx, agentID)
		if err != nil {
			return fmt.Errorf("querying product distribution: %w", err)
		}
		products = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logg.Error(ctx, "aggregating distribution", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregating distribution")
	}

	byAgent := make(map[uuid.UUID]*AgentDistributionDTO)
	for _, row := range outcomes {
		byAgent[row.AgentID] = &AgentDistributionDTO{
			AgentID:    row.AgentID,
			AgentName:  row.AgentName,
			TotalSpins: row.TotalSpins,
			Wins:       row.Wins,
			Losses:     row.Losses,
			Rejections: row.Rejections,
			Products:   []ProductDistributionDTO{},
		}
	}
	for _, row := range products {
		entry, ok := byAgent[row.AgentID]
		if !ok {
			entry = &AgentDistributionDTO{
				AgentID:   row.AgentID,
				AgentName: row.AgentName,
				Products:  []ProductDistributionDTO{},
			}
			byAgent[row.AgentID] = entry
		}
		entry.Products = append(entry.Products, ProductDistributionDTO{
			ProductID:      row.ProductID,
			Label:          row.Label,
			TotalQty:       row.TotalQty,
			AvailableQty:   row.AvailableQty,
			DistributedQty: row.DistributedQty,
		})
	}

	agents := make([]AgentDistributionDTO, 0, len(byAgent))
	for _, entry := range byAgent {
		agents = append(agents, *entry)
	}
	sort.Slice(agents, func(i, j int) bool {
		if agents[i].AgentName != agents[j].AgentName {
			return agents[i].AgentName < agents[j].AgentName
		}
		return agents[i].AgentID.String() < agents[j].AgentID.String()
	})

	return &DistributionDTO{Agents: agents}, nil
}
