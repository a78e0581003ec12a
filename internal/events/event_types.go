package events

import (
	"time"

	"github.com/spec-kit/fieldops-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventWorkOrderCreated       EventType = "work_order_created"
	EventWorkOrderStatusChanged EventType = "work_order_status_changed"
	EventWorkOrderAssigned      EventType = "work_order_assigned"
	EventFileVisibilityChanged  EventType = "file_visibility_changed"
	EventHubMessagePosted       EventType = "hub_message_posted"
	EventContactGrantAdded      EventType = "contact_grant_added"
	EventContactGrantRemoved    EventType = "contact_grant_removed"
	EventChecklistItemToggled   EventType = "checklist_item_toggled"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	ID   string      `json:"id"`
	Role domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	WorkOrderID string      `json:"work_order_id"`
	Actor       Actor       `json:"actor"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// WorkOrderCreatedPayload payload.
type WorkOrderCreatedPayload struct {
	Title    string  `json:"title"`
	ClientID *string `json:"client_id,omitempty"`
	OwnerID  string  `json:"owner_id"`
}

// StatusChangedPayload payload.
type StatusChangedPayload struct {
	OldStatus domain.WorkOrderStatus `json:"old_status"`
	NewStatus domain.WorkOrderStatus `json:"new_status"`
	Reason    *string                `json:"reason,omitempty"`
}

// AssignmentChangedPayload payload.
type AssignmentChangedPayload struct {
	AssignedActorID string `json:"assigned_actor_id"`
	Removed         bool   `json:"removed,omitempty"`
}

// FileVisibilityChangedPayload payload.
type FileVisibilityChangedPayload struct {
	FileID          string `json:"file_id"`
	VisibleToClient bool   `json:"visible_to_client"`
}

// HubMessagePostedPayload payload.
type HubMessagePostedPayload struct {
	MessageID   string  `json:"message_id"`
	AuthorID    string  `json:"author_id"`
	ClientName  *string `json:"client_name,omitempty"`
	BodyPreview string  `json:"body_preview"`
}

// ContactGrantPayload payload for grant add/remove.
type ContactGrantPayload struct {
	ContactID string `json:"contact_id"`
}

// ChecklistItemToggledPayload payload.
type ChecklistItemToggledPayload struct {
	TaskID   string `json:"task_id"`
	ItemID   string `json:"item_id"`
	Done     bool   `json:"done"`
	Progress int    `json:"progress"`
}
