package results

import (
	"time"

	"github.com/google/uuid"
	"github.com/spinwin/prizewheel-backend/pkg/db/models"
)

// ResultDTO is the spin log row returned to dashboard clients.
type ResultDTO struct {
	ID           uuid.UUID  `json:"id"`
	AgentID      uuid.UUID  `json:"agent_id"`
	ProductID    *uuid.UUID `json:"product_id,omitempty"`
	PlayerName   string     `json:"player_name"`
	PlayerEmail  string     `json:"player_email"`
	PlayerPhone  *string    `json:"player_phone,omitempty"`
	Location     *string    `json:"location,omitempty"`
	Label        string     `json:"label"`
	Won          bool       `json:"won"`
	RejectReason *string    `json:"reject_reason,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ResultPage wraps one page of results plus the cursor for the next page.
type ResultPage struct {
	Results    []ResultDTO `json:"results"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

// NewResultDTO builds a DTO from the persisted row.
func NewResultDTO(result *models.SpinResult) *ResultDTO {
	return &ResultDTO{
		ID:           result.ID,
		AgentID:      result.AgentID,
		ProductID:    result.ProductID,
		PlayerName:   result.PlayerName,
		PlayerEmail:  result.PlayerEmail,
		PlayerPhone:  result.PlayerPhone,
		Location:     result.Location,
		Label:        result.Label,
		Won:          result.Won,
		RejectReason: result.RejectReason,
		CreatedAt:    result.CreatedAt,
	}
}
