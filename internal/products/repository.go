package products

import (
	"context"

	"github.com/google/uuid"
	"github.com/spinwin/prizewheel-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines CRUD operations for prize products.
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

// Create inserts the product.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// List returns all products ordered by label.
func (r *Repository) List(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	if err := r.db.WithContext(ctx).Order("label").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListActive returns active products only.
func (r *Repository) ListActive(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("label").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Save persists the full product row.
func (r *Repository) Save(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete removes the product; ledger rows cascade at the database level.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
