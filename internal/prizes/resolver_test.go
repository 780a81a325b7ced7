package prizes

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/spinwin/prizewheel-backend/pkg/db/models"
)

type fakeLister struct {
	rows []models.Product
}

func (f *fakeLister) ListActive(context.Context) ([]models.Product, error) {
	return f.rows, nil
}

func newTestResolver(t *testing.T) (*Resolver, uuid.UUID) {
	t.Helper()
	bottleID := uuid.New()
	resolver, err := NewResolver(&fakeLister{rows: []models.Product{
		{
			ID:            bottleID,
			Label:         "Water Bottle",
			LabelVariants: pq.StringArray{"Bottle", "Botella de Agua"},
			IsActive:      true,
		},
		{
			ID:       uuid.New(),
			Label:    "Baseball Cap",
			IsActive: true,
		},
	}})
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	return resolver, bottleID
}

func TestResolveCanonicalLabel(t *testing.T) {
	resolver, bottleID := newTestResolver(t)

	product, ok, err := resolver.Resolve(context.Background(), "Water Bottle")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !ok || product.ID != bottleID {
		t.Fatalf("expected bottle match, got ok=%v product=%+v", ok, product)
	}
}

func TestResolveVariantAndCasing(t *testing.T) {
	resolver, bottleID := newTestResolver(t)
	ctx := context.Background()

	for _, label := range []string{"bottle", "BOTTLE", "  water   bottle  ", "botella de agua"} {
		product, ok, err := resolver.Resolve(ctx, label)
		if err != nil {
			t.Fatalf("resolve %q: %v", label, err)
		}
		if !ok || product.ID != bottleID {
			t.Fatalf("label %q did not resolve to bottle", label)
		}
	}
}

func TestResolveLosingLabels(t *testing.T) {
	resolver, _ := newTestResolver(t)
	ctx := context.Background()

	for _, label := range []string{"Try Again", "", "   ", "Unknown Prize"} {
		_, ok, err := resolver.Resolve(ctx, label)
		if err != nil {
			t.Fatalf("resolve %q: %v", label, err)
		}
		if ok {
			t.Fatalf("label %q should not resolve to a product", label)
		}
	}
}
