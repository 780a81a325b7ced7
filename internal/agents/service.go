package agents

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/spinwin/prizewheel-backend/pkg/db"
	"github.com/spinwin/prizewheel-backend/pkg/db/models"
	pkgerrors "github.com/spinwin/prizewheel-backend/pkg/errors"
	"github.com/spinwin/prizewheel-backend/pkg/logger"
	"gorm.io/gorm"
)

// Service exposes agent management operations.
type Service interface {
	Create(ctx context.Context, input CreateAgentInput) (*AgentDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateAgentInput) (*AgentDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*AgentDTO, error)
	GetBySlug(ctx context.Context, slug string) (*AgentDTO, error)
	List(ctx context.Context) ([]AgentDTO, error)
}

var slugSanitizeRe = regexp.MustCompile(`[^a-z0-9-]+`)

type service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService constructs an agent service instance.
func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("agent repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, input CreateAgentInput) (*AgentDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug could not be derived from name")
	}

	agent := &models.Agent{
		ID:       uuid.New(),
		Name:     name,
		Slug:     slug,
		Location: normalizeLocation(input.Location),
		IsActive: input.IsActive,
	}
	if err := s.repo.Create(ctx, agent); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "agent slug already in use")
		}
		return nil, fmt.Errorf("creating agent: %w", err)
	}

	s.logg.Info(s.logg.WithAgentID(ctx, agent.ID.String()), "agent created")
	return NewAgentDTO(agent), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateAgentInput) (*AgentDTO, error) {
	agent, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "agent not found")
	}
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be blank")
		}
		agent.Name = name
	}
	if input.Slug != nil {
		slug := Slugify(*input.Slug)
		if slug == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug cannot be blank")
		}
		agent.Slug = slug
	}
	if input.IsActive != nil {
		agent.IsActive = *input.IsActive
	}
	if input.Location != nil {
		agent.Location = normalizeLocation(input.Location)
	}

	if err := s.repo.Save(ctx, agent); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "agent slug already in use")
		}
		return nil, fmt.Errorf("updating agent: %w", err)
	}
	return NewAgentDTO(agent), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "agent not found")
	}
	if err != nil {
		return err
	}
	s.logg.Info(s.logg.WithAgentID(ctx, id.String()), "agent deleted")
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*AgentDTO, error) {
	agent, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "agent not found")
	}
	if err != nil {
		return nil, err
	}
	return NewAgentDTO(agent), nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*AgentDTO, error) {
	agent, err := s.repo.FindBySlug(ctx, strings.TrimSpace(slug))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "agent not found")
	}
	if err != nil {
		return nil, err
	}
	return NewAgentDTO(agent), nil
}

func (s *service) List(ctx context.Context) ([]AgentDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]AgentDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewAgentDTO(&rows[i]))
	}
	return dtos, nil
}

func normalizeLocation(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// Slugify lowercases and strips the value down to url-safe characters.
func Slugify(value string) string {
	slug := strings.ToLower(strings.TrimSpace(value))
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = slugSanitizeRe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
