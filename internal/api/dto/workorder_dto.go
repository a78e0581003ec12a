package dto

import (
	"time"

	"github.com/spec-kit/fieldops-service/internal/domain"
)

// CreateWorkOrderRequest payload.
type CreateWorkOrderRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ClientID    *string `json:"client_id"`
	PMID        *string `json:"pm_contact_id"`
}

// TransitionStatusRequest payload.
type TransitionStatusRequest struct {
	Status domain.WorkOrderStatus `json:"status"`
	Reason string                 `json:"reason"`
}

// AssignRequest payload.
type AssignRequest struct {
	ActorID string `json:"actor_id"`
}

// WorkOrderSummary response.
type WorkOrderSummary struct {
	ID           string                 `json:"id"`
	ExternalKey  string                 `json:"external_key"`
	Title        string                 `json:"title"`
	Status       domain.WorkOrderStatus `json:"status"`
	StatusReason *string                `json:"status_reason,omitempty"`
	OwnerID      string                 `json:"owner_id"`
	ClientID     *string                `json:"client_id,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// WorkOrderDetailResponse provides full work order info.
type WorkOrderDetailResponse struct {
	ID               string                  `json:"id"`
	ExternalKey      string                  `json:"external_key"`
	Title            string                  `json:"title"`
	Description      string                  `json:"description"`
	Status           domain.WorkOrderStatus  `json:"status"`
	StatusReason     *string                 `json:"status_reason,omitempty"`
	OwnerID          string                  `json:"owner_id"`
	ClientID         *string                 `json:"client_id,omitempty"`
	PMID             *string                 `json:"pm_contact_id,omitempty"`
	AssignedActorIDs []string                `json:"assigned_actor_ids"`
	TeamActorIDs     []string                `json:"team_actor_ids"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
	History          []StatusHistoryResponse `json:"history,omitempty"`
}

// StatusHistoryResponse is one audit trail entry.
type StatusHistoryResponse struct {
	ID        string    `json:"id"`
	ActorID   string    `json:"actor_id"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	Reason    *string   `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
