package agents

import (
	"time"

	"github.com/google/uuid"
	"github.com/spinwin/prizewheel-backend/pkg/db/models"
)

// AgentDTO is the agent payload returned to dashboard clients.
type AgentDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Location  *string   `json:"location,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateAgentInput holds the validated payload to create an agent.
type CreateAgentInput struct {
	Name     string
	Slug     string
	Location *string
	IsActive bool
}

// UpdateAgentInput holds optional mutation values for an agent.
type UpdateAgentInput struct {
	Name     *string
	Slug     *string
	Location *string
	IsActive *bool
}

// NewAgentDTO builds a DTO from the persisted model.
func NewAgentDTO(agent *models.Agent) *AgentDTO {
	return &AgentDTO{
		ID:        agent.ID,
		Name:      agent.Name,
		Slug:      agent.Slug,
		Location:  agent.Location,
		IsActive:  agent.IsActive,
		CreatedAt: agent.CreatedAt,
		UpdatedAt: agent.UpdatedAt,
	}
}
