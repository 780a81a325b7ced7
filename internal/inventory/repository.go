package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/spinwin/prizewheel-backend/pkg/db/models"
	pkgerrors "github.com/spinwin/prizewheel-backend/pkg/errors"
	"gorm.io/gorm"
)

// Repository owns persistence for the inventory ledger. All mutations are
// single-statement updates; the datastore is the sole synchronization point.
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

// Create inserts a new ledger record. Callers translate unique violations
// into a duplicate-assignment rejection.
func (r *Repository) Create(ctx context.Context, record *models.InventoryRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// Find loads the record for the (agent, product) pair.
func (r *Repository) Find(ctx context.Context, agentID, productID uuid.UUID) (*models.InventoryRecord, error) {
	var record models.InventoryRecord
	err := r.db.WithContext(ctx).
		First(&record, "agent_id = ? AND product_id = ?", agentID, productID).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListByAgent returns every ledger record for the agent.
func (r *Repository) ListByAgent(ctx context.Context, agentID uuid.UUID) ([]models.InventoryRecord, error) {
	var records []models.InventoryRecord
	err := r.db.WithContext(ctx).
		Where("agent_id = ?", agentID).
		Order("product_id").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// List returns the full ledger ordered by agent then product.
func (r *Repository) List(ctx context.Context) ([]models.InventoryRecord, error) {
	var records []models.InventoryRecord
	err := r.db.WithContext(ctx).
		Order("agent_id, product_id").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ListAvailableByAgent returns records with stock remaining, used to decide
// which prizes appear on the wheel. Advisory only; reservation re-checks.
func (r *Repository) ListAvailableByAgent(ctx context.Context, agentID uuid.UUID) ([]models.InventoryRecord, error) {
	var records []models.InventoryRecord
	err := r.db.WithContext(ctx).
		Where("agent_id = ? AND available_qty > 0", agentID).
		Order("product_id").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ListBelowThreshold returns records whose available stock has fallen to or
// below the threshold. Used by the low-stock sweep.
func (r *Repository) ListBelowThreshold(ctx context.Context, threshold int) ([]models.InventoryRecord, error) {
	var records []models.InventoryRecord
	err := r.db.WithContext(ctx).
		Where("available_qty <= ?", threshold).
		Order("agent_id, product_id").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ReserveUnit atomically moves one unit from available to distributed. The
// guarded UPDATE plus affected-row check is the entire concurrency contract:
// two callers racing on the last unit cannot both pass the available_qty > 0
// predicate, so at most one row update wins.
func (r *Repository) ReserveUnit(ctx context.Context, agentID, productID uuid.UUID) (*models.InventoryRecord, error) {
	res := r.db.WithContext(ctx).
		Model(&models.InventoryRecord{}).
		Where("agent_id = ? AND product_id = ? AND available_qty > 0", agentID, productID).
		Updates(map[string]any{
			"available_qty":   gorm.Expr("available_qty - 1"),
			"distributed_qty": gorm.Expr("distributed_qty + 1"),
			"updated_at":      time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		record, err := r.Find(ctx, agentID, productID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory record not found")
		}
		if err != nil {
			return nil, err
		}
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, "no available stock").
			WithDetails(map[string]any{
				"agent_id":   agentID.String(),
				"product_id": productID.String(),
				"available":  record.AvailableQty,
			})
	}
	return r.Find(ctx, agentID, productID)
}

// Restock adds delta units of headroom. A race with ReserveUnit is harmless:
// both sides are individually atomic single-row updates.
func (r *Repository) Restock(ctx context.Context, agentID, productID uuid.UUID, delta int) (*models.InventoryRecord, error) {
	res := r.db.WithContext(ctx).
		Model(&models.InventoryRecord{}).
		Where("agent_id = ? AND product_id = ?", agentID, productID).
		Updates(map[string]any{
			"total_qty":     gorm.Expr("total_qty + ?", delta),
			"available_qty": gorm.Expr("available_qty + ?", delta),
			"updated_at":    time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory record not found")
	}
	return r.Find(ctx, agentID, productID)
}

// Adjust is the manual correction path. It rewrites the row in one statement
// so a concurrent ReserveUnit cannot be half-clobbered; last writer wins.
// When newTotal is nil the current total is kept and distributed is recomputed
// in-statement so the invariant holds against whatever total is live.
func (r *Repository) Adjust(ctx context.Context, agentID, productID uuid.UUID, newAvailable int, newTotal *int) (*models.InventoryRecord, error) {
	updates := map[string]any{
		"available_qty": newAvailable,
		"updated_at":    time.Now().UTC(),
	}
	query := r.db.WithContext(ctx).
		Model(&models.InventoryRecord{}).
		Where("agent_id = ? AND product_id = ?", agentID, productID)
	if newTotal != nil {
		updates["total_qty"] = *newTotal
		updates["distributed_qty"] = *newTotal - newAvailable
	} else {
		updates["distributed_qty"] = gorm.Expr("total_qty - ?", newAvailable)
		query = query.Where("total_qty >= ?", newAvailable)
	}

	res := query.Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.Find(ctx, agentID, productID); errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory record not found")
		} else if err != nil {
			return nil, err
		}
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "available quantity exceeds total quantity")
	}
	return r.Find(ctx, agentID, productID)
}
