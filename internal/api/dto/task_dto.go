package dto

import "time"

// TaskResponse pairs a task with its computed progress.
type TaskResponse struct {
	ID        string                  `json:"id"`
	Name      string                  `json:"name"`
	Progress  int                     `json:"progress"`
	Items     []ChecklistItemResponse `json:"items"`
	CreatedAt time.Time               `json:"created_at"`
}

// ChecklistItemResponse is one checklist entry.
type ChecklistItemResponse struct {
	ID            string     `json:"id"`
	Label         string     `json:"label"`
	Done          bool       `json:"done"`
	CompletedByID *string    `json:"completed_by_id,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// ToggleChecklistRequest payload.
type ToggleChecklistRequest struct {
	Done bool `json:"done"`
}
