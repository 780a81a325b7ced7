package spins

import (
	"github.com/google/uuid"
)

// SubmitInput is the validated spin submission from the wheel frontend.
type SubmitInput struct {
	AgentID     uuid.UUID
	Label       string
	PlayerName  string
	PlayerEmail string
	PlayerPhone *string
	Location    *string
	RequestIP   string
}

// OutcomeDTO reports what the spin produced. Remaining counts are only set
// for winning spins.
type OutcomeDTO struct {
	ResultID           uuid.UUID  `json:"result_id"`
	Won                bool       `json:"won"`
	Label              string     `json:"label"`
	ProductID          *uuid.UUID `json:"product_id,omitempty"`
	RemainingAvailable *int       `json:"remaining_available,omitempty"`
	Distributed        *int       `json:"distributed,omitempty"`
}

// WheelDTO describes what the frontend should render for one agent: the
// agent display name plus each prize with stock remaining. Availability is
// advisory; the reservation re-checks under the row guard.
type WheelDTO struct {
	AgentID   uuid.UUID       `json:"agent_id"`
	AgentName string          `json:"agent_name"`
	Prizes    []WheelPrizeDTO `json:"prizes"`
}

// WheelPrizeDTO is one stocked prize on the wheel.
type WheelPrizeDTO struct {
	ProductID    uuid.UUID `json:"product_id"`
	Label        string    `json:"label"`
	AvailableQty int       `json:"available_qty"`
}
