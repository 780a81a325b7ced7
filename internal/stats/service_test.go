package stats

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/spinwin/prizewheel-backend/pkg/db/models"
	"github.com/spinwin/prizewheel-backend/pkg/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	dsn := "file:stats_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Agent{}, &models.Product{}, &models.InventoryRecord{}, &models.SpinResult{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc, err := NewService(NewRepository(conn), logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func seedAgent(t *testing.T, conn *gorm.DB, name, slug string) uuid.UUID {
	t.Helper()
	agent := &models.Agent{ID: uuid.New(), Name: name, Slug: slug, IsActive: true}
	if err := conn.Create(agent).Error; err != nil {
		t.Fatalf("seed agent: %v", err)
	}
	return agent.ID
}

func seedProduct(t *testing.T, conn *gorm.DB, label string) uuid.UUID {
	t.Helper()
	product := &models.Product{ID: uuid.New(), Label: label, IsActive: true}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product.ID
}

func seedResult(t *testing.T, conn *gorm.DB, agentID uuid.UUID, won bool, rejectReason *string) {
	t.Helper()
	result := &models.SpinResult{
		ID:           uuid.New(),
		AgentID:      agentID,
		PlayerName:   "Pat Doe",
		PlayerEmail:  "player@example.com",
		Label:        "Water Bottle",
		Won:          won,
		RejectReason: rejectReason,
	}
	if err := conn.Create(result).Error; err != nil {
		t.Fatalf("seed result: %v", err)
	}
}

func TestDistributionGroupsOutcomesPerAgent(t *testing.T) {
	t.Parallel()

	svc, conn := newTestService(t)
	ctx := context.Background()

	boothA := seedAgent(t, conn, "Booth A", "booth-a")
	boothB := seedAgent(t, conn, "Booth B", "booth-b")
	bottle := seedProduct(t, conn, "Water Bottle")

	record := &models.InventoryRecord{
		AgentID: boothA, ProductID: bottle,
		TotalQty: 10, AvailableQty: 7, DistributedQty: 3,
	}
	if err := conn.Create(record).Error; err != nil {
		t.Fatalf("seed inventory: %v", err)
	}

	reason := "insufficient_stock"
	seedResult(t, conn, boothA, true, nil)
	seedResult(t, conn, boothA, true, nil)
	seedResult(t, conn, boothA, false, nil)
	seedResult(t, conn, boothA, false, &reason)
	seedResult(t, conn, boothB, false, nil)

	dist, err := svc.Distribution(ctx, nil)
	if err != nil {
		t.Fatalf("distribution: %v", err)
	}
	if len(dist.Agents) != 2 {
		t.Fatalf("expected 2 agents, got %d", len(dist.Agents))
	}

	a := dist.Agents[0]
	if a.AgentID != boothA || a.TotalSpins != 4 || a.Wins != 2 || a.Losses != 1 || a.Rejections != 1 {
		t.Fatalf("unexpected booth A counts: %+v", a)
	}
	if len(a.Products) != 1 || a.Products[0].DistributedQty != 3 || a.Products[0].AvailableQty != 7 {
		t.Fatalf("unexpected booth A products: %+v", a.Products)
	}

	b := dist.Agents[1]
	if b.AgentID != boothB || b.TotalSpins != 1 || b.Wins != 0 || b.Losses != 1 {
		t.Fatalf("unexpected booth B counts: %+v", b)
	}
	if len(b.Products) != 0 {
		t.Fatalf("booth B should have no ledger rows: %+v", b.Products)
	}
}

func TestDistributionFiltersByAgent(t *testing.T) {
	t.Parallel()

	svc, conn := newTestService(t)
	ctx := context.Background()

	boothA := seedAgent(t, conn, "Booth A", "booth-a")
	boothB := seedAgent(t, conn, "Booth B", "booth-b")
	seedResult(t, conn, boothA, true, nil)
	seedResult(t, conn, boothB, false, nil)

	dist, err := svc.Distribution(ctx, &boothA)
	if err != nil {
		t.Fatalf("distribution: %v", err)
	}
	if len(dist.Agents) != 1 || dist.Agents[0].AgentID != boothA {
		t.Fatalf("expected only booth A, got %+v", dist.Agents)
	}
}

func TestDistributionIncludesAgentsWithoutSpins(t *testing.T) {
	t.Parallel()

	svc, conn := newTestService(t)
	ctx := context.Background()

	agentID := seedAgent(t, conn, "Booth Fresh", "booth-fresh")
	productID := seedProduct(t, conn, "Sticker Pack")
	record := &models.InventoryRecord{
		AgentID: agentID, ProductID: productID,
		TotalQty: 5, AvailableQty: 5, DistributedQty: 0,
	}
	if err := conn.Create(record).Error; err != nil {
		t.Fatalf("seed inventory: %v", err)
	}

	dist, err := svc.Distribution(ctx, nil)
	if err != nil {
		t.Fatalf("distribution: %v", err)
	}
	if len(dist.Agents) != 1 {
		t.Fatalf("expected 1 agent, got %d", len(dist.Agents))
	}
	entry := dist.Agents[0]
	if entry.TotalSpins != 0 || len(entry.Products) != 1 || entry.Products[0].Label != "Sticker Pack" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}
