package results

import (
	"context"

	"github.com/google/uuid"
	"github.com/spinwin/prizewheel-backend/pkg/db/models"
	"github.com/spinwin/prizewheel-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository owns persistence for the append-only spin result log.
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

// Create appends one spin result. Rows are write-once; there is no update path.
func (r *Repository) Create(ctx context.Context, result *models.SpinResult) error {
	return r.db.WithContext(ctx).Create(result).Error
}

// FindByID loads a single result.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.SpinResult, error) {
	var result models.SpinResult
	if err := r.db.WithContext(ctx).First(&result, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

// List returns a page of results newest-first, optionally scoped to an agent.
// It fetches limit+1 rows so the caller can detect another page.
func (r *Repository) List(ctx context.Context, agentID *uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.SpinResult, error) {
	query := r.db.WithContext(ctx).Model(&models.SpinResult{})
	if agentID != nil {
		query = query.Where("agent_id = ?", *agentID)
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.SpinResult
	err := query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(limit)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Delete removes one result row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.SpinResult{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteByAgent removes every result row for the agent and reports the count.
func (r *Repository) DeleteByAgent(ctx context.Context, agentID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.SpinResult{}, "agent_id = ?", agentID)
	return res.RowsAffected, res.Error
}
