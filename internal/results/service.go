package results

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	pkgerrors "github.com/spinwin/prizewheel-backend/pkg/errors"
	"github.com/spinwin/prizewheel-backend/pkg/logger"
	"github.com/spinwin/prizewheel-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Service exposes read and delete operations over the spin log. Writes happen
// inside the spin transaction, not here.
type Service interface {
	List(ctx context.Context, agentID *uuid.UUID, params pagination.Params) (*ResultPage, error)
	Get(ctx context.Context, id uuid.UUID) (*ResultDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByAgent(ctx context.Context, agentID uuid.UUID) (int64, error)
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService constructs a results service instance.
func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("results repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) List(ctx context.Context, agentID *uuid.UUID, params pagination.Params) (*ResultPage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.repo.List(ctx, agentID, cursor, params.Limit)
	if err != nil {
		return nil, err
	}

	limit := pagination.NormalizeLimit(params.Limit)
	page := &ResultPage{Results: make([]ResultDTO, 0, len(rows))}
	for i := range rows {
		if i == limit {
			last := rows[limit-1]
			page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
				CreatedAt: last.CreatedAt,
				ID:        last.ID,
			})
			break
		}
		page.Results = append(page.Results, *NewResultDTO(&rows[i]))
	}
	return page, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ResultDTO, error) {
	result, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "spin result not found")
	}
	if err != nil {
		return nil, err
	}
	return NewResultDTO(result), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "spin result not found")
	}
	return err
}

func (s *service) DeleteByAgent(ctx context.Context, agentID uuid.UUID) (int64, error) {
	deleted, err := s.repo.DeleteByAgent(ctx, agentID)
	if err != nil {
		return 0, err
	}
	s.logg.Info(s.logg.WithAgentID(ctx, agentID.String()), "spin results purged")
	return deleted, nil
}
