package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fieldops-service/internal/api/dto"
	"github.com/spec-kit/fieldops-service/internal/auth"
	"github.com/spec-kit/fieldops-service/internal/domain"
	"github.com/spec-kit/fieldops-service/internal/repository"
	"github.com/spec-kit/fieldops-service/internal/service"
	apperrors "github.com/spec-kit/fieldops-service/pkg/util"
)

// WorkOrdersHandler manages work order endpoints.
type WorkOrdersHandler struct {
	service *service.WorkOrderService
}

// NewWorkOrdersHandler constructs handler.
func NewWorkOrdersHandler(workOrderService *service.WorkOrderService) *WorkOrdersHandler {
	return &WorkOrdersHandler{service: workOrderService}
}

// Create POST /work-orders.
func (h *WorkOrdersHandler) Create(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateWorkOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	order, err := h.service.CreateWorkOrder(c.Context(), *actor, service.WorkOrderCreateInput{
		Title:       req.Title,
		Description: req.Description,
		ClientID:    req.ClientID,
		PMID:        req.PMID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": workOrderSummary(order)})
}

// List GET /work-orders.
func (h *WorkOrdersHandler) List(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	orders, err := h.service.ListWorkOrders(c.Context(), *actor, parseWorkOrderQuery(c))
	if err != nil {
		return err
	}
	items := make([]dto.WorkOrderSummary, 0, len(orders))
	for i := range orders {
		items = append(items, workOrderSummary(&orders[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /work-orders/:id.
func (h *WorkOrdersHandler) Get(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	order, err := h.service.GetWorkOrder(c.Context(), *actor, c.Params("id"))
	if err != nil {
		return err
	}
	history, err := h.service.ListHistory(c.Context(), *actor, order.ID, 50, 0)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": workOrderDetail(order, history)})
}

// TransitionStatus POST /work-orders/:id/status.
func (h *WorkOrdersHandler) TransitionStatus(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.TransitionStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	order, err := h.service.TransitionStatus(c.Context(), *actor, c.Params("id"), req.Status, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": workOrderSummary(order)})
}

// Assign POST /work-orders/:id/assign.
func (h *WorkOrdersHandler) Assign(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.ActorID) == "" {
		return apperrors.NewValidationError("actor_id required", nil)
	}
	order, err := h.service.AssignActor(c.Context(), *actor, c.Params("id"), req.ActorID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": workOrderSummary(order)})
}

func parseWorkOrderQuery(c *fiber.Ctx) service.WorkOrderListFilter {
	filter := service.WorkOrderListFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.WorkOrderStatus(strings.TrimSpace(part)))
		}
	}
	if clientID := c.Query("client_id"); clientID != "" {
		filter.ClientID = &clientID
	}
	if search := c.Query("q"); search != "" {
		filter.SearchTerm = &search
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func workOrderSummary(order *domain.WorkOrder) dto.WorkOrderSummary {
	return dto.WorkOrderSummary{
		ID:           order.ID,
		ExternalKey:  order.ExternalKey,
		Title:        order.Title,
		Status:       order.Status,
		StatusReason: order.StatusReason,
		OwnerID:      order.OwnerID,
		ClientID:     order.ClientID,
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
	}
}

func workOrderDetail(order *domain.WorkOrder, history []repository.StatusHistoryEntry) dto.WorkOrderDetailResponse {
	entries := make([]dto.StatusHistoryResponse, 0, len(history))
	for _, entry := range history {
		entries = append(entries, dto.StatusHistoryResponse{
			ID:        entry.ID,
			ActorID:   entry.ActorID,
			OldStatus: entry.OldStatus,
			NewStatus: entry.NewStatus,
			Reason:    entry.Reason,
			CreatedAt: entry.CreatedAt,
		})
	}
	return dto.WorkOrderDetailResponse{
		ID:               order.ID,
		ExternalKey:      order.ExternalKey,
		Title:            order.Title,
		Description:      order.Description,
		Status:           order.Status,
		StatusReason:     order.StatusReason,
		OwnerID:          order.OwnerID,
		ClientID:         order.ClientID,
		PMID:             order.PMID,
		AssignedActorIDs: order.AssignedActorIDs,
		TeamActorIDs:     order.TeamActorIDs,
		CreatedAt:        order.CreatedAt,
		UpdatedAt:        order.UpdatedAt,
		History:          entries,
	}
}
