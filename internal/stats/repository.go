package stats

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository answers read-only aggregation queries over spin results and the
// inventory ledger. Nothing here mutates state.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

const outcomeCountsQuery = `
SELECT
  spin_results.agent_id AS agent_id,
  agents.name AS agent_name,
  COUNT(*) AS total_spins,
  SUM(CASE WHEN spin_results.won THEN 1 ELSE 0 END) AS wins,
  SUM(CASE WHEN NOT spin_results.won AND spin_results.reject_reason IS NULL THEN 1 ELSE 0 END) AS losses,
  SUM(CASE WHEN spin_results.reject_reason IS NOT NULL THEN 1 ELSE 0 END) AS rejections
FROM spin_results
JOIN agents ON agents.id = spin_results.agent_id
GROUP BY spin_results.agent_id, agents.name
ORDER BY agents.name ASC
`

const outcomeCountsByAgentQuery = `
SELECT
  spin_results.agent_id AS agent_id,
  agents.name AS agent_name,
  COUNT(*) AS total_spins,
  SUM(CASE WHEN spin_results.won THEN 1 ELSE 0 END) AS wins,
  SUM(CASE WHEN NOT spin_results.won AND spin_results.reject_reason IS NULL THEN 1 ELSE 0 END) AS losses,
  SUM(CASE WHEN spin_results.reject_reason IS NOT NULL THEN 1 ELSE 0 END) AS rejections
FROM spin_results
JOIN agents ON agents.id = spin_results.agent_id
WHERE spin_results.agent_id = ?
GROUP BY spin_results.agent_id, agents.name
`

type outcomeRow struct {
	AgentID    uuid.UUID
	AgentName  string
	TotalSpins int
	Wins       int
	Losses     int
	Rejections int
}

func (r *Repository) OutcomeCounts(ctx context.Context, agentID *uuid.UUID) ([]outcomeRow, error) {
	var rows []outcomeRow
	query := r.db.WithContext(ctx)
	var err error
	if agentID != nil {
		err = query.Raw(outcomeCountsByAgentQuery, *agentID).Scan(&rows).Error
	} else {
		err = query.Raw(outcomeCountsQuery).Scan(&rows).Error
	}
	if err != nil {
		return nil, err
	}
	return rows, nil
}

const productDistributionQuery = `
SELECT
  inventory_records.agent_id AS agent_id,
  agents.name AS agent_name,
  inventory_records.product_id AS product_id,
  products.label AS label,
  inventory_records.total_qty AS total_qty,
  inventory_records.available_qty AS available_qty,
  inventory_records.distributed_qty AS distributed_qty
FROM inventory_records
JOIN agents ON agents.id = inventory_records.agent_id
JOIN products ON products.id = inventory_records.product_id
ORDER BY products.label ASC
`

const productDistributionByAgentQuery = `
SELECT
  inventory_records.agent_id AS agent_id,
  agents.name AS agent_name,
  inventory_records.product_id AS product_id,
  products.label AS label,
  inventory_records.total_qty AS total_qty,
  inventory_records.available_qty AS available_qty,
  inventory_records.distributed_qty AS distributed_qty
FROM inventory_records
JOIN agents ON agents.id = inventory_records.agent_id
JOIN products ON products.id = inventory_records.product_id
WHERE inventory_records.agent_id = ?
ORDER BY products.label ASC
`

type productRow struct {
	AgentID        uuid.UUID
	AgentName      string
	ProductID      uuid.UUID
	Label          string
	TotalQty       int
	AvailableQty   int
	DistributedQty int
}

func (r *Repository) ProductDistribution(ctx context.Context, agentID *uuid.UUID) ([]productRow, error) {
	var rows []productRow
	query := r.db.WithContext(ctx)
	var err error
	if agentID != nil {
		err = query.Raw(productDistributionByAgentQuery, *agentID).Scan(&rows).Error
	} else {
		err = query.Raw(productDistributionQuery).Scan(&rows).Error
	}
	if err != nil {
		return nil, err
	}
	return rows, nil
}
