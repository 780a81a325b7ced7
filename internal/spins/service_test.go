package spins

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/spinwin/prizewheel-backend/internal/inventory"
	"github.com/spinwin/prizewheel-backend/internal/results"
	"github.com/spinwin/prizewheel-backend/pkg/config"
	"github.com/spinwin/prizewheel-backend/pkg/db"
	"github.com/spinwin/prizewheel-backend/pkg/db/models"
	pkgerrors "github.com/spinwin/prizewheel-backend/pkg/errors"
	"github.com/spinwin/prizewheel-backend/pkg/logger"
	"github.com/spinwin/prizewheel-backend/pkg/metrics"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeAgents struct {
	rows map[uuid.UUID]*models.Agent
}

func (f *fakeAgents) FindByID(_ context.Context, id uuid.UUID) (*models.Agent, error) {
	if agent, ok := f.rows[id]; ok {
		return agent, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeProducts struct {
	rows map[uuid.UUID]*models.Product
}

func (f *fakeProducts) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if product, ok := f.rows[id]; ok {
		return product, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// fakeResolver matches on exact product labels, case-insensitively.
type fakeResolver struct {
	products []*models.Product
}

func (f *fakeResolver) Resolve(_ context.Context, label string) (*models.Product, bool, error) {
	for _, product := range f.products {
		if strings.EqualFold(strings.TrimSpace(label), product.Label) {
			return product, true, nil
		}
	}
	return nil, false, nil
}

type fixture struct {
	svc       Service
	conn      *gorm.DB
	agentID   uuid.UUID
	productID uuid.UUID
}

func newFixture(t *testing.T, available int) *fixture {
	t.Helper()

	dsn := "file:spins_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.InventoryRecord{}, &models.SpinResult{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	agentID, productID := uuid.New(), uuid.New()
	venue := "North Plaza"
	agent := &models.Agent{ID: agentID, Name: "Booth 12", Slug: "booth-12", Location: &venue, IsActive: true}
	product := &models.Product{ID: productID, Label: "Water Bottle", IsActive: true}

	record := &models.InventoryRecord{
		AgentID:        agentID,
		ProductID:      productID,
		TotalQty:       available,
		AvailableQty:   available,
		DistributedQty: 0,
	}
	if err := conn.Create(record).Error; err != nil {
		t.Fatalf("seed inventory: %v", err)
	}

	svc, err := NewService(
		db.NewWithConn(conn),
		inventory.NewRepository(conn),
		results.NewRepository(conn),
		&fakeResolver{products: []*models.Product{product}},
		&fakeAgents{rows: map[uuid.UUID]*models.Agent{agentID: agent}},
		&fakeProducts{rows: map[uuid.UUID]*models.Product{productID: product}},
		metrics.NewSpinMetrics(nil),
		config.SpinConfig{ReserveAttempts: 3, ReserveBackoff: time.Millisecond},
		logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &fixture{svc: svc, conn: conn, agentID: agentID, productID: productID}
}

func TestSubmitWinReservesAndRecords(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, 3)
	ctx := context.Background()

	outcome, err := fx.svc.Submit(ctx, SubmitInput{
		AgentID:     fx.agentID,
		Label:       "water bottle",
		PlayerName:  "Pat Doe",
		PlayerEmail: "Player@Example.com",
		RequestIP:   "203.0.113.9",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !outcome.Won || outcome.Label != "Water Bottle" {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	if outcome.RemainingAvailable == nil || *outcome.RemainingAvailable != 2 {
		t.Fatalf("unexpected remaining: %+v", outcome.RemainingAvailable)
	}
	if outcome.Distributed == nil || *outcome.Distributed != 1 {
		t.Fatalf("unexpected distributed: %+v", outcome.Distributed)
	}

	var result models.SpinResult
	if err := fx.conn.First(&result, "id = ?", outcome.ResultID).Error; err != nil {
		t.Fatalf("load result: %v", err)
	}
	if !result.Won || result.PlayerEmail != "player@example.com" {
		t.Fatalf("unexpected result row: %+v", result)
	}
	if result.ProductID == nil || *result.ProductID != fx.productID {
		t.Fatalf("result missing product reference: %+v", result)
	}
	if result.PlayerName != "Pat Doe" {
		t.Fatalf("unexpected player name: %q", result.PlayerName)
	}
	if result.Location == nil || *result.Location != "North Plaza" {
		t.Fatalf("expected agent location fallback, got %v", result.Location)
	}
}

func TestSubmitLossOnlyAppendsResult(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, 3)
	ctx := context.Background()

	submitted := "  Kiosk 3  "
	outcome, err := fx.svc.Submit(ctx, SubmitInput{
		AgentID:     fx.agentID,
		Label:       "Try Again",
		PlayerName:  "Pat Doe",
		PlayerEmail: "player@example.com",
		Location:    &submitted,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if outcome.Won {
		t.Fatalf("losing label produced a win: %+v", outcome)
	}

	var result models.SpinResult
	if err := fx.conn.First(&result, "id = ?", outcome.ResultID).Error; err != nil {
		t.Fatalf("load result: %v", err)
	}
	if result.Location == nil || *result.Location != "Kiosk 3" {
		t.Fatalf("expected submitted location to win, got %v", result.Location)
	}

	var record models.InventoryRecord
	if err := fx.conn.First(&record, "agent_id = ?", fx.agentID).Error; err != nil {
		t.Fatalf("load inventory: %v", err)
	}
	if record.AvailableQty != 3 || record.DistributedQty != 0 {
		t.Fatalf("losing spin touched the ledger: %+v", record)
	}
}

func TestSubmitDepletedStockRejected(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, 0)
	ctx := context.Background()

	_, err := fx.svc.Submit(ctx, SubmitInput{
		AgentID:     fx.agentID,
		Label:       "Water Bottle",
		PlayerName:  "Pat Doe",
		PlayerEmail: "player@example.com",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("expected insufficient stock, got %v", err)
	}

	// the rejection is logged best-effort with a reason
	var result models.SpinResult
	if err := fx.conn.First(&result, "agent_id = ? AND won = ?", fx.agentID, false).Error; err != nil {
		t.Fatalf("load rejection row: %v", err)
	}
	if result.RejectReason == nil || *result.RejectReason != "insufficient_stock" {
		t.Fatalf("unexpected rejection row: %+v", result)
	}

	var record models.InventoryRecord
	if err := fx.conn.First(&record, "agent_id = ?", fx.agentID).Error; err != nil {
		t.Fatalf("load inventory: %v", err)
	}
	if record.AvailableQty != 0 || record.DistributedQty != 0 {
		t.Fatalf("rejected spin mutated the ledger: %+v", record)
	}
}

func TestSubmitLastUnitThenRejection(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, 1)
	ctx := context.Background()

	outcome, err := fx.svc.Submit(ctx, SubmitInput{
		AgentID:     fx.agentID,
		Label:       "Water Bottle",
		PlayerName:  "Pat Doe",
		PlayerEmail: "first@example.com",
	})
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if !outcome.Won || *outcome.RemainingAvailable != 0 {
		t.Fatalf("unexpected first outcome: %+v", outcome)
	}

	_, err = fx.svc.Submit(ctx, SubmitInput{
		AgentID:     fx.agentID,
		Label:       "Water Bottle",
		PlayerName:  "Sam Roe",
		PlayerEmail: "second@example.com",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("expected insufficient stock on second submit, got %v", err)
	}
}

func TestSubmitValidationAndUnknownAgent(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, 1)
	ctx := context.Background()

	_, err := fx.svc.Submit(ctx, SubmitInput{AgentID: fx.agentID, Label: "x", PlayerName: "Pat", PlayerEmail: "  "})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = fx.svc.Submit(ctx, SubmitInput{AgentID: fx.agentID, Label: "x", PlayerName: "  ", PlayerEmail: "a@b.c"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for blank name, got %v", err)
	}

	_, err = fx.svc.Submit(ctx, SubmitInput{AgentID: uuid.New(), Label: "x", PlayerName: "Pat", PlayerEmail: "a@b.c"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestWheelListsStockedPrizes(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, 2)
	ctx := context.Background()

	wheel, err := fx.svc.Wheel(ctx, fx.agentID)
	if err != nil {
		t.Fatalf("wheel: %v", err)
	}
	if wheel.AgentName != "Booth 12" {
		t.Fatalf("unexpected agent name %q", wheel.AgentName)
	}
	if len(wheel.Prizes) != 1 || wheel.Prizes[0].Label != "Water Bottle" || wheel.Prizes[0].AvailableQty != 2 {
		t.Fatalf("unexpected prizes: %+v", wheel.Prizes)
	}

	// depleted stock falls off the wheel
	if err := fx.conn.Model(&models.InventoryRecord{}).
		Where("agent_id = ?", fx.agentID).
		Updates(map[string]any{"available_qty": 0, "distributed_qty": 2}).Error; err != nil {
		t.Fatalf("deplete: %v", err)
	}
	wheel, err = fx.svc.Wheel(ctx, fx.agentID)
	if err != nil {
		t.Fatalf("wheel after depletion: %v", err)
	}
	if len(wheel.Prizes) != 0 {
		t.Fatalf("depleted prize still on wheel: %+v", wheel.Prizes)
	}

	if _, err := fx.svc.Wheel(ctx, uuid.New()); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown agent, got %v", err)
	}
}

func TestSubmitRetriesTransientReservationFailures(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, 3)
	ctx := context.Background()

	// fail the result insert twice with a serialization failure; the third
	// attempt goes through
	attempts := 0
	err := fx.conn.Callback().Create().Before("gorm:create").Register("flaky_result_insert", func(tx *gorm.DB) {
		if tx.Statement == nil || tx.Statement.Table != "spin_results" {
			return
		}
		attempts++
		if attempts < 3 {
			tx.AddError(&pgconn.PgError{Code: "40001", Message: "could not serialize access"})
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	outcome, err := fx.svc.Submit(ctx, SubmitInput{
		AgentID:     fx.agentID,
		Label:       "Water Bottle",
		PlayerName:  "Pat Doe",
		PlayerEmail: "player@example.com",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !outcome.Won {
		t.Fatalf("expected win after retries, got %+v", outcome)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 reservation attempts, got %d", attempts)
	}

	// the rolled-back attempts must not have touched the ledger
	var record models.InventoryRecord
	if err := fx.conn.First(&record, "agent_id = ?", fx.agentID).Error; err != nil {
		t.Fatalf("load inventory: %v", err)
	}
	if record.AvailableQty != 2 || record.DistributedQty != 1 {
		t.Fatalf("ledger decremented more than once: %+v", record)
	}
	var results int64
	if err := fx.conn.Model(&models.SpinResult{}).Count(&results).Error; err != nil {
		t.Fatalf("count results: %v", err)
	}
	if results != 1 {
		t.Fatalf("expected a single result row, got %d", results)
	}
}

func TestSubmitDoesNotRetryPermanentFailures(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, 3)
	ctx := context.Background()

	attempts := 0
	err := fx.conn.Callback().Create().Before("gorm:create").Register("broken_result_insert", func(tx *gorm.DB) {
		if tx.Statement == nil || tx.Statement.Table != "spin_results" {
			return
		}
		attempts++
		tx.AddError(&pgconn.PgError{Code: "23514", Message: "check constraint violated"})
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	if _, err := fx.svc.Submit(ctx, SubmitInput{
		AgentID:     fx.agentID,
		Label:       "Water Bottle",
		PlayerName:  "Pat Doe",
		PlayerEmail: "player@example.com",
	}); err == nil {
		t.Fatal("expected submit to fail")
	}
	if attempts != 1 {
		t.Fatalf("permanent failure was retried %d times", attempts)
	}

	var record models.InventoryRecord
	if err := fx.conn.First(&record, "agent_id = ?", fx.agentID).Error; err != nil {
		t.Fatalf("load inventory: %v", err)
	}
	if record.AvailableQty != 3 || record.DistributedQty != 0 {
		t.Fatalf("failed reservation leaked into the ledger: %+v", record)
	}
}
