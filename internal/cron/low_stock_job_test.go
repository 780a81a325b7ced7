package cron

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/spinwin/prizewheel-backend/pkg/db/models"
	"gorm.io/gorm"
)

type fakeLowStockLister struct {
	records   []models.InventoryRecord
	threshold int
}

func (f *fakeLowStockLister) ListBelowThreshold(_ context.Context, threshold int) ([]models.InventoryRecord, error) {
	f.threshold = threshold
	return f.records, nil
}

type fakeAgentNamer struct {
	rows map[uuid.UUID]*models.Agent
}

func (f *fakeAgentNamer) FindByID(_ context.Context, id uuid.UUID) (*models.Agent, error) {
	if agent, ok := f.rows[id]; ok {
		return agent, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeProductNamer struct {
	rows map[uuid.UUID]*models.Product
}

func (f *fakeProductNamer) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if product, ok := f.rows[id]; ok {
		return product, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func TestLowStockJobFlagsRecordsBelowThreshold(t *testing.T) {
	agentID, productID := uuid.New(), uuid.New()
	lister := &fakeLowStockLister{records: []models.InventoryRecord{
		{AgentID: agentID, ProductID: productID, TotalQty: 10, AvailableQty: 2, DistributedQty: 8},
	}}
	job, err := NewLowStockJob(LowStockJobParams{
		Logger:    newTestLogger(),
		Inventory: lister,
		Agents: &fakeAgentNamer{rows: map[uuid.UUID]*models.Agent{
			agentID: {ID: agentID, Name: "Booth 12"},
		}},
		Products: &fakeProductNamer{rows: map[uuid.UUID]*models.Product{
			productID: {ID: productID, Label: "Water Bottle"},
		}},
		Threshold: 3,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if lister.threshold != 3 {
		t.Fatalf("expected threshold 3 passed through, got %d", lister.threshold)
	}
}

func TestLowStockJobToleratesMissingNames(t *testing.T) {
	lister := &fakeLowStockLister{records: []models.InventoryRecord{
		{AgentID: uuid.New(), ProductID: uuid.New(), TotalQty: 1, AvailableQty: 0, DistributedQty: 1},
	}}
	job, err := NewLowStockJob(LowStockJobParams{
		Logger:    newTestLogger(),
		Inventory: lister,
		Agents:    &fakeAgentNamer{},
		Products:  &fakeProductNamer{},
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	// missing rows fall back to raw IDs and are not an error
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if lister.threshold != defaultLowStockThreshold {
		t.Fatalf("expected default threshold, got %d", lister.threshold)
	}
}
