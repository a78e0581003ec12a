package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/fieldops-service/internal/domain"
	"github.com/spec-kit/fieldops-service/internal/events"
	"github.com/spec-kit/fieldops-service/internal/lifecycle"
	"github.com/spec-kit/fieldops-service/internal/policy"
	"github.com/spec-kit/fieldops-service/internal/repository"
	apperrors "github.com/spec-kit/fieldops-service/pkg/util"
)

// Permission keys consulted by the work order service.
const (
	PermJobsView         policy.PermissionKey = "jobs:view"
	PermJobsViewAssigned policy.PermissionKey = "jobs:view:assigned"
	PermJobsCreate       policy.PermissionKey = "jobs:create"
	PermJobsAssign       policy.PermissionKey = "jobs:assign"
	PermJobsStatusChange policy.PermissionKey = "jobs:status:change"
)

// WorkOrderService coordinates work order workflows. Every mutation runs the
// permission gate first, then the lifecycle machine where applicable, then
// persists and publishes; notification delivery is fire-and-forget.
type WorkOrderService struct {
	orders     repository.WorkOrderRepository
	history    repository.HistoryRepository
	eval       *policy.Evaluator
	dispatcher events.Dispatcher
}

// WorkOrderDependencies bundles collaborators for the service.
type WorkOrderDependencies struct {
	OrderRepo   repository.WorkOrderRepository
	HistoryRepo repository.HistoryRepository
	Evaluator   *policy.Evaluator
	Dispatcher  events.Dispatcher
}

// WorkOrderCreateInput describes work order creation payload.
type WorkOrderCreateInput struct {
	Title       string
	Description string
	ClientID    *string
	PMID        *string
}

// WorkOrderListFilter describes listing filters.
type WorkOrderListFilter struct {
	ClientID   *string
	Statuses   []domain.WorkOrderStatus
	SearchTerm *string
	Limit      int
	Offset     int
}

// NewWorkOrderService constructs the service.
func NewWorkOrderService(deps WorkOrderDependencies) *WorkOrderService {
	return &WorkOrderService{
		orders:     deps.OrderRepo,
		history:    deps.HistoryRepo,
		eval:       deps.Evaluator,
		dispatcher: deps.Dispatcher,
	}
}

// CreateWorkOrder creates a work order in OPEN status owned by the actor.
func (s *WorkOrderService) CreateWorkOrder(ctx context.Context, actor domain.Actor, input WorkOrderCreateInput) (*domain.WorkOrder, error) {
	if !s.eval.Allows(actor, PermJobsCreate) {
		return nil, apperrors.NewForbidden("not allowed to create work orders")
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}
	if input.PMID != nil && input.ClientID == nil {
		return nil, apperrors.NewValidationError("primary contact requires a client", nil)
	}

	order := &domain.WorkOrder{
		ExternalKey:      generateWorkOrderKey(),
		Title:            title,
		Description:      strings.TrimSpace(input.Description),
		Status:           domain.StatusOpen,
		OwnerID:          actor.ID,
		ClientID:         input.ClientID,
		PMID:             input.PMID,
		AssignedActorIDs: []string{},
		TeamActorIDs:     []string{},
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventWorkOrderCreated,
		WorkOrderID: order.ID,
		Actor:       eventActor(actor),
		Payload: events.WorkOrderCreatedPayload{
			Title:    order.Title,
			ClientID: order.ClientID,
			OwnerID:  order.OwnerID,
		},
	})
	return order, nil
}

// GetWorkOrder fetches a work order the actor may see: general viewers see
// any order, assignment-scoped viewers (technicians) only their own context.
func (s *WorkOrderService) GetWorkOrder(ctx context.Context, actor domain.Actor, id string) (*domain.WorkOrder, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !s.canViewOrder(actor, order) {
		return nil, apperrors.NewForbidden("not allowed to view this work order")
	}
	return order, nil
}

// ListWorkOrders returns work orders scoped to the actor's view permission.
func (s *WorkOrderService) ListWorkOrders(ctx context.Context, actor domain.Actor, filter WorkOrderListFilter) ([]domain.WorkOrder, error) {
	repoFilter := repository.WorkOrderFilter{
		ClientID:   filter.ClientID,
		Statuses:   filter.Statuses,
		SearchTerm: filter.SearchTerm,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
	switch {
	case s.eval.Allows(actor, PermJobsView):
		// unscoped
	case s.eval.Allows(actor, PermJobsViewAssigned):
		actorID := actor.ID
		repoFilter.AssignedActorID = &actorID
	default:
		return nil, apperrors.NewForbidden("not allowed to list work orders")
	}
	orders, err := s.orders.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return orders, nil
}

// TransitionStatus requests a status change. The permission gate and the
// lifecycle machine are deliberately separate checks: the first decides
// whether the actor may ask, the second whether the transition is
// well-formed.
func (s *WorkOrderService) TransitionStatus(ctx context.Context, actor domain.Actor, id string, requested domain.WorkOrderStatus, reason string) (*domain.WorkOrder, error) {
	if !s.eval.Allows(actor, PermJobsStatusChange) {
		return nil, apperrors.NewForbidden("not allowed to change work order status")
	}
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	oldStatus := order.Status
	updated, err := lifecycle.Apply(*order, requested, reason)
	if err != nil {
		var missing *lifecycle.MissingReasonError
		if errors.As(err, &missing) {
			return nil, apperrors.NewMissingReason(string(missing.Target))
		}
		var unknown *lifecycle.UnknownStatusError
		if errors.As(err, &unknown) {
			return nil, apperrors.NewValidationError("unknown status "+string(unknown.Status), nil)
		}
		return nil, apperrors.MapError(err)
	}

	if err := s.orders.Update(ctx, &updated); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.recordStatusChange(ctx, actor, &updated, oldStatus)
	s.publishEvent(ctx, events.Event{
		Type:        events.EventWorkOrderStatusChanged,
		WorkOrderID: updated.ID,
		Actor:       eventActor(actor),
		Payload: events.StatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: updated.Status,
			Reason:    updated.StatusReason,
		},
	})
	return &updated, nil
}

// AssignActor adds an actor to the work order's assignment list.
func (s *WorkOrderService) AssignActor(ctx context.Context, actor domain.Actor, id, assigneeID string) (*domain.WorkOrder, error) {
	if !s.eval.Allows(actor, PermJobsAssign) {
		return nil, apperrors.NewForbidden("not allowed to assign work orders")
	}
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if order.IsAssigned(assigneeID) {
		return order, nil
	}
	order.AssignedActorIDs = append(order.AssignedActorIDs, assigneeID)
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventWorkOrderAssigned,
		WorkOrderID: order.ID,
		Actor:       eventActor(actor),
		Payload:     events.AssignmentChangedPayload{AssignedActorID: assigneeID},
	})
	return order, nil
}

// ListHistory returns the status audit trail for viewers of the order.
func (s *WorkOrderService) ListHistory(ctx context.Context, actor domain.Actor, id string, limit, offset int) ([]repository.StatusHistoryEntry, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !s.canViewOrder(actor, order) {
		return nil, apperrors.NewForbidden("not allowed to view this work order")
	}
	entries, err := s.history.ListByWorkOrder(ctx, id, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

func (s *WorkOrderService) canViewOrder(actor domain.Actor, order *domain.WorkOrder) bool {
	if actor.ID == order.OwnerID {
		return true
	}
	if s.eval.Allows(actor, PermJobsView) {
		return true
	}
	return s.eval.Allows(actor, PermJobsViewAssigned) && order.IsAssigned(actor.ID)
}

func (s *WorkOrderService) recordStatusChange(ctx context.Context, actor domain.Actor, order *domain.WorkOrder, oldStatus domain.WorkOrderStatus) {
	if s.history == nil {
		return
	}
	entry := &repository.StatusHistoryEntry{
		WorkOrderID: order.ID,
		ActorID:     actor.ID,
		OldStatus:   string(oldStatus),
		NewStatus:   string(order.Status),
		Reason:      order.StatusReason,
	}
	_ = s.history.Create(ctx, entry)
}

func (s *WorkOrderService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func eventActor(actor domain.Actor) events.Actor {
	return events.Actor{ID: actor.ID, Role: actor.Role}
}

func generateWorkOrderKey() string {
	return "WO-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
