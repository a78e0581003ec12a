package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/fieldops-service/internal/domain"
	"github.com/spec-kit/fieldops-service/internal/events"
	"github.com/spec-kit/fieldops-service/internal/policy"
	"github.com/spec-kit/fieldops-service/internal/repository"
	apperrors "github.com/spec-kit/fieldops-service/pkg/util"
)

// Permission keys consulted by the task service.
const (
	PermTasksView            policy.PermissionKey = "jobs:tasks:view"
	PermTasksChecklistToggle policy.PermissionKey = "jobs:tasks:checklist:toggle"
)

// TaskService coordinates task checklists. Progress is always computed from
// the items at read time, never stored.
type TaskService struct {
	tasks      repository.TaskRepository
	eval       *policy.Evaluator
	dispatcher events.Dispatcher
}

// TaskWithProgress pairs a task with its computed completion percentage.
type TaskWithProgress struct {
	Task     domain.Task
	Progress int
}

// NewTaskService constructs the service.
func NewTaskService(tasks repository.TaskRepository, eval *policy.Evaluator, dispatcher events.Dispatcher) *TaskService {
	return &TaskService{tasks: tasks, eval: eval, dispatcher: dispatcher}
}

// ListForWorkOrder returns tasks with computed progress.
func (s *TaskService) ListForWorkOrder(ctx context.Context, actor domain.Actor, workOrderID string) ([]TaskWithProgress, error) {
	if !s.eval.Allows(actor, PermTasksView) {
		return nil, apperrors.NewForbidden("not allowed to view tasks")
	}
	tasks, err := s.tasks.ListByWorkOrder(ctx, workOrderID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	result := make([]TaskWithProgress, 0, len(tasks))
	for i := range tasks {
		result = append(result, TaskWithProgress{Task: tasks[i], Progress: tasks[i].Progress()})
	}
	return result, nil
}

// ToggleChecklistItem sets an item's completion, stamping completer and time.
// Un-completing clears both.
func (s *TaskService) ToggleChecklistItem(ctx context.Context, actor domain.Actor, taskID, itemID string, done bool) (*TaskWithProgress, error) {
	if !s.eval.Allows(actor, PermTasksChecklistToggle) {
		return nil, apperrors.NewForbidden("not allowed to toggle checklist items")
	}
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	var item *domain.ChecklistItem
	for i := range task.Items {
		if task.Items[i].ID == itemID {
			item = &task.Items[i]
			break
		}
	}
	if item == nil {
		return nil, apperrors.NewNotFound("checklist item", nil)
	}

	if item.Done != done {
		item.Done = done
		if done {
			now := time.Now()
			actorID := actor.ID
			item.CompletedByID = &actorID
			item.CompletedAt = &now
		} else {
			item.CompletedByID = nil
			item.CompletedAt = nil
		}
		if err := s.tasks.UpdateChecklistItem(ctx, item); err != nil {
			return nil, apperrors.MapError(err)
		}
		if s.dispatcher != nil {
			_ = s.dispatcher.Publish(ctx, events.Event{
				ID:          uuid.NewString(),
				Type:        events.EventChecklistItemToggled,
				WorkOrderID: task.WorkOrderID,
				Actor:       eventActor(actor),
				Timestamp:   time.Now(),
				Payload: events.ChecklistItemToggledPayload{
					TaskID:   task.ID,
					ItemID:   item.ID,
					Done:     done,
					Progress: task.Progress(),
				},
			})
		}
	}

	return &TaskWithProgress{Task: *task, Progress: task.Progress()}, nil
}
