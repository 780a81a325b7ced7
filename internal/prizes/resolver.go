package prizes

import (
	"context"
	"fmt"
	"strings"

	"github.com/spinwin/prizewheel-backend/pkg/db/models"
)

// The wheel frontend submits the sector label it landed on as free text.
// Resolver maps that label to a canonical product before anything reaches the
// ledger: a product matches on its label or any configured variant,
// case-insensitively. Labels that resolve to no product are losing sectors
// ("Try Again" and friends).

type productLister interface {
	ListActive(ctx context.Context) ([]models.Product, error)
}

// Resolver resolves submitted prize labels to canonical products.
type Resolver struct {
	products productLister
}

// NewResolver constructs a label resolver.
func NewResolver(products productLister) (*Resolver, error) {
	if products == nil {
		return nil, fmt.Errorf("product lister required")
	}
	return &Resolver{products: products}, nil
}

// Resolve returns the product matching the label, or ok=false when the label
// names a losing sector.
func (r *Resolver) Resolve(ctx context.Context, label string) (*models.Product, bool, error) {
	needle := normalize(label)
	if needle == "" {
		return nil, false, nil
	}

	rows, err := r.products.ListActive(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("listing products: %w", err)
	}

	for i := range rows {
		if normalize(rows[i].Label) == needle {
			return &rows[i], true, nil
		}
		for _, variant := range rows[i].LabelVariants {
			if normalize(variant) == needle {
				return &rows[i], true, nil
			}
		}
	}
	return nil, false, nil
}

func normalize(label string) string {
	return strings.ToLower(strings.Join(strings.Fields(label), " "))
}
