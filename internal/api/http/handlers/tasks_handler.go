package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fieldops-service/internal/api/dto"
	"github.com/spec-kit/fieldops-service/internal/auth"
	"github.com/spec-kit/fieldops-service/internal/service"
	apperrors "github.com/spec-kit/fieldops-service/pkg/util"
)

// TasksHandler manages task checklist endpoints.
type TasksHandler struct {
	service *service.TaskService
}

// NewTasksHandler constructs handler.
func NewTasksHandler(taskService *service.TaskService) *TasksHandler {
	return &TasksHandler{service: taskService}
}

// List GET /work-orders/:id/tasks.
func (h *TasksHandler) List(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	tasks, err := h.service.ListForWorkOrder(c.Context(), *actor, c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		items = append(items, taskResponse(&tasks[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ToggleItem PATCH /tasks/:taskId/items/:itemId.
func (h *TasksHandler) ToggleItem(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ToggleChecklistRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	task, err := h.service.ToggleChecklistItem(c.Context(), *actor, c.Params("taskId"), c.Params("itemId"), req.Done)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": taskResponse(task)})
}

func taskResponse(task *service.TaskWithProgress) dto.TaskResponse {
	items := make([]dto.ChecklistItemResponse, 0, len(task.Task.Items))
	for _, item := range task.Task.Items {
		items = append(items, dto.ChecklistItemResponse{
			ID:            item.ID,
			Label:         item.Label,
			Done:          item.Done,
			CompletedByID: item.CompletedByID,
			CompletedAt:   item.CompletedAt,
		})
	}
	return dto.TaskResponse{
		ID:        task.Task.ID,
		Name:      task.Task.Name,
		Progress:  task.Progress,
		Items:     items,
		CreatedAt: task.Task.CreatedAt,
	}
}
