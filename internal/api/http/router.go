package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fieldops-service/internal/api/http/handlers"
	"github.com/spec-kit/fieldops-service/internal/auth"
	"github.com/spec-kit/fieldops-service/internal/policy"
	"github.com/spec-kit/fieldops-service/internal/service"
	"github.com/spec-kit/fieldops-service/internal/visibility"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	WorkOrders     *handlers.WorkOrdersHandler
	Files          *handlers.FilesHandler
	Hub            *handlers.HubHandler
	Tasks          *handlers.TasksHandler
	AuthMiddleware *auth.AuthMiddleware
	Evaluator      *policy.Evaluator
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle)

	orders := protected.Group("/work-orders")
	orders.Post("", auth.RequirePermission(cfg.Evaluator, service.PermJobsCreate), cfg.WorkOrders.Create)
	orders.Get("", cfg.WorkOrders.List)
	orders.Get("/:id", cfg.WorkOrders.Get)
	orders.Post("/:id/status", auth.RequirePermission(cfg.Evaluator, service.PermJobsStatusChange), cfg.WorkOrders.TransitionStatus)
	orders.Post("/:id/assign", auth.RequirePermission(cfg.Evaluator, service.PermJobsAssign), cfg.WorkOrders.Assign)

	orders.Post("/:id/files", auth.RequirePermission(cfg.Evaluator, visibility.PermFilesManage), cfg.Files.Add)
	orders.Get("/:id/files", cfg.Files.List)
	protected.Patch("/files/:id/visibility", auth.RequirePermission(cfg.Evaluator, visibility.PermFilesManage), cfg.Files.ToggleVisibility)

	orders.Get("/:id/hub/access", cfg.Hub.Access)
	orders.Get("/:id/hub", cfg.Hub.View)
	orders.Post("/:id/hub/messages", cfg.Hub.PostMessage)
	orders.Post("/:id/hub/contacts", cfg.Hub.AddContact)
	orders.Delete("/:id/hub/contacts/:contactId", cfg.Hub.RemoveContact)

	orders.Get("/:id/tasks", cfg.Tasks.List)
	protected.Patch("/tasks/:taskId/items/:itemId", cfg.Tasks.ToggleItem)
}
