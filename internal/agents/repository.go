package agents

import (
	"context"

	"github.com/google/uuid"
	"github.com/spinwin/prizewheel-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence for wheel agents.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts the agent.
func (r *Repository) Create(ctx context.Context, agent *models.Agent) error {
	return r.db.WithContext(ctx).Create(agent).Error
}

// FindByID loads the agent without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Agent, error) {
	var agent models.Agent
	if err := r.db.WithContext(ctx).First(&agent, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &agent, nil
}

// FindBySlug loads the agent by its public slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Agent, error) {
	var agent models.Agent
	if err := r.db.WithContext(ctx).First(&agent, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &agent, nil
}

// List returns all agents ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Agent, error) {
	var agents []models.Agent
	if err := r.db.WithContext(ctx).Order("name").Find(&agents).Error; err != nil {
		return nil, err
	}
	return agents, nil
}

// Save persists the full agent row.
func (r *Repository) Save(ctx context.Context, agent *models.Agent) error {
	return r.db.WithContext(ctx).Save(agent).Error
}

// Delete removes the agent; inventory records cascade at the database level.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Agent{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
