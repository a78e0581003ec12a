package domain

import (
	"math"
	"time"
)

// ChecklistItem is a single step within a task.
type ChecklistItem struct {
	ID            string
	TaskID        string
	Label         string
	Position      int
	Done          bool
	CompletedByID *string
	CompletedAt   *time.Time
}

// Task owns an ordered checklist on a work order.
type Task struct {
	ID          string
	WorkOrderID string
	Name        string
	Items       []ChecklistItem
	CreatedAt   time.Time
}

// Progress returns the checklist completion percentage, 0..100. A task with
// no items is 0% complete, never 100%. Recomputed on every read so it cannot
// drift from the underlying items.
func (t *Task) Progress() int {
	if len(t.Items) == 0 {
		return 0
	}
	done := 0
	for _, item := range t.Items {
		if item.Done {
			done++
		}
	}
	return int(math.Round(100 * float64(done) / float64(len(t.Items))))
}
