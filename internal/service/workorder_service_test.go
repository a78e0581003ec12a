package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/fieldops-service/internal/domain"
	"github.com/spec-kit/fieldops-service/internal/events"
	"github.com/spec-kit/fieldops-service/internal/policy"
	apperrors "github.com/spec-kit/fieldops-service/pkg/util"
)

var (
	staffActor = domain.Actor{ID: "staff-1", Role: domain.RoleOfficeStaff, Active: true}
	techActor  = domain.Actor{ID: "tech-1", Role: domain.RoleTechnician, Active: true}
	adminActor = domain.Actor{ID: "admin-1", Role: domain.RoleAdmin, Active: true}
)

type workOrderFixture struct {
	service    *WorkOrderService
	orders     *fakeWorkOrderRepo
	history    *fakeHistoryRepo
	dispatcher *recordingDispatcher
}

func newWorkOrderFixture() workOrderFixture {
	orders := newFakeWorkOrderRepo()
	history := &fakeHistoryRepo{}
	dispatcher := &recordingDispatcher{}
	svc := NewWorkOrderService(WorkOrderDependencies{
		OrderRepo:   orders,
		HistoryRepo: history,
		Evaluator:   policy.NewEvaluator(policy.DefaultCatalog()),
		Dispatcher:  dispatcher,
	})
	return workOrderFixture{service: svc, orders: orders, history: history, dispatcher: dispatcher}
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	return domainErr.Code
}

func TestCreateWorkOrder(t *testing.T) {
	fix := newWorkOrderFixture()

	order, err := fix.service.CreateWorkOrder(context.Background(), staffActor, WorkOrderCreateInput{
		Title:       "  Replace compressor  ",
		Description: "Unit on roof",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusOpen, order.Status)
	assert.Equal(t, "Replace compressor", order.Title)
	assert.Equal(t, "staff-1", order.OwnerID)
	assert.NotEmpty(t, order.ID)
	assert.Regexp(t, `^WO-[0-9A-F]{8}$`, order.ExternalKey)

	created := fix.dispatcher.byType(events.EventWorkOrderCreated)
	require.Len(t, created, 1)
	assert.Equal(t, order.ID, created[0].WorkOrderID)
}

func TestCreateWorkOrderForbiddenForTechnician(t *testing.T) {
	fix := newWorkOrderFixture()

	_, err := fix.service.CreateWorkOrder(context.Background(), techActor, WorkOrderCreateInput{Title: "x"})
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))
	assert.Empty(t, fix.dispatcher.published)
}

func TestCreateWorkOrderValidation(t *testing.T) {
	fix := newWorkOrderFixture()

	_, err := fix.service.CreateWorkOrder(context.Background(), staffActor, WorkOrderCreateInput{Title: "   "})
	assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))

	pmID := "c1"
	_, err = fix.service.CreateWorkOrder(context.Background(), staffActor, WorkOrderCreateInput{Title: "x", PMID: &pmID})
	assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))
}

func TestGetWorkOrderScoping(t *testing.T) {
	fix := newWorkOrderFixture()
	fix.orders.seed(domain.WorkOrder{
		ID:               "wo-1",
		Status:           domain.StatusOpen,
		OwnerID:          "owner-9",
		AssignedActorIDs: []string{"tech-1"},
	})
	fix.orders.seed(domain.WorkOrder{ID: "wo-2", Status: domain.StatusOpen, OwnerID: "owner-9"})

	// Staff hold the general view grant.
	_, err := fix.service.GetWorkOrder(context.Background(), staffActor, "wo-1")
	require.NoError(t, err)

	// Technicians see only orders they are assigned to.
	_, err = fix.service.GetWorkOrder(context.Background(), techActor, "wo-1")
	require.NoError(t, err)
	_, err = fix.service.GetWorkOrder(context.Background(), techActor, "wo-2")
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))

	// Owners see their own orders regardless of grants.
	owner := domain.Actor{ID: "owner-9", Role: domain.RoleUnknown, Active: true}
	_, err = fix.service.GetWorkOrder(context.Background(), owner, "wo-2")
	require.NoError(t, err)

	_, err = fix.service.GetWorkOrder(context.Background(), staffActor, "missing")
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))
}

func TestListWorkOrdersScopesTechnicians(t *testing.T) {
	fix := newWorkOrderFixture()
	fix.orders.seed(domain.WorkOrder{ID: "wo-1", Status: domain.StatusOpen, OwnerID: "o", AssignedActorIDs: []string{"tech-1"}})
	fix.orders.seed(domain.WorkOrder{ID: "wo-2", Status: domain.StatusOpen, OwnerID: "o"})

	all, err := fix.service.ListWorkOrders(context.Background(), staffActor, WorkOrderListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := fix.service.ListWorkOrders(context.Background(), techActor, WorkOrderListFilter{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "wo-1", mine[0].ID)

	contact := domain.Actor{ID: "c-1", Role: domain.RoleClientContact, Active: true}
	_, err = fix.service.ListWorkOrders(context.Background(), contact, WorkOrderListFilter{})
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))
}

func TestTransitionStatusHappyPath(t *testing.T) {
	fix := newWorkOrderFixture()
	fix.orders.seed(domain.WorkOrder{ID: "wo-1", Status: domain.StatusActive, OwnerID: "o"})

	updated, err := fix.service.TransitionStatus(context.Background(), staffActor, "wo-1", domain.StatusOnHold, "waiting on parts")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOnHold, updated.Status)
	require.NotNil(t, updated.StatusReason)
	assert.Equal(t, "waiting on parts", *updated.StatusReason)

	stored, err := fix.orders.GetByID(context.Background(), "wo-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOnHold, stored.Status)

	changed := fix.dispatcher.byType(events.EventWorkOrderStatusChanged)
	require.Len(t, changed, 1)
	payload, ok := changed[0].Payload.(events.StatusChangedPayload)
	require.True(t, ok)
	assert.Equal(t, domain.StatusActive, payload.OldStatus)
	assert.Equal(t, domain.StatusOnHold, payload.NewStatus)

	require.Len(t, fix.history.entries, 1)
	assert.Equal(t, "ACTIVE", fix.history.entries[0].OldStatus)
	assert.Equal(t, "ON_HOLD", fix.history.entries[0].NewStatus)
	assert.Equal(t, "staff-1", fix.history.entries[0].ActorID)
}

func TestTransitionStatusMissingReason(t *testing.T) {
	fix := newWorkOrderFixture()
	fix.orders.seed(domain.WorkOrder{ID: "wo-1", Status: domain.StatusActive, OwnerID: "o"})

	_, err := fix.service.TransitionStatus(context.Background(), staffActor, "wo-1", domain.StatusCancelled, "")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "MISSING_REASON", domainErr.Code)
	assert.Equal(t, 422, domainErr.HTTPStatus)
	assert.Equal(t, "CANCELLED", domainErr.Details["target_status"])

	// Nothing persisted, nothing published.
	stored, _ := fix.orders.GetByID(context.Background(), "wo-1")
	assert.Equal(t, domain.StatusActive, stored.Status)
	assert.Empty(t, fix.dispatcher.published)
	assert.Empty(t, fix.history.entries)
}

func TestTransitionStatusUnknownStatus(t *testing.T) {
	fix := newWorkOrderFixture()
	fix.orders.seed(domain.WorkOrder{ID: "wo-1", Status: domain.StatusOpen, OwnerID: "o"})

	_, err := fix.service.TransitionStatus(context.Background(), staffActor, "wo-1", domain.WorkOrderStatus("ARCHIVED"), "")
	assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))
}

func TestTransitionStatusClearsReason(t *testing.T) {
	fix := newWorkOrderFixture()
	reason := "waiting on parts"
	fix.orders.seed(domain.WorkOrder{ID: "wo-1", Status: domain.StatusOnHold, StatusReason: &reason, OwnerID: "o"})

	updated, err := fix.service.TransitionStatus(context.Background(), techActor, "wo-1", domain.StatusActive, "")
	require.NoError(t, err)
	assert.Nil(t, updated.StatusReason)
}

func TestTransitionStatusForbidden(t *testing.T) {
	fix := newWorkOrderFixture()
	fix.orders.seed(domain.WorkOrder{ID: "wo-1", Status: domain.StatusOpen, OwnerID: "o"})

	contact := domain.Actor{ID: "c-1", Role: domain.RoleClientContact, Active: true}
	_, err := fix.service.TransitionStatus(context.Background(), contact, "wo-1", domain.StatusActive, "")
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))
}

func TestAssignActor(t *testing.T) {
	fix := newWorkOrderFixture()
	fix.orders.seed(domain.WorkOrder{ID: "wo-1", Status: domain.StatusOpen, OwnerID: "o"})

	order, err := fix.service.AssignActor(context.Background(), staffActor, "wo-1", "tech-1")
	require.NoError(t, err)
	assert.True(t, order.IsAssigned("tech-1"))

	assigned := fix.dispatcher.byType(events.EventWorkOrderAssigned)
	require.Len(t, assigned, 1)

	// Re-assigning the same actor is a no-op and emits nothing.
	_, err = fix.service.AssignActor(context.Background(), staffActor, "wo-1", "tech-1")
	require.NoError(t, err)
	assert.Len(t, fix.dispatcher.byType(events.EventWorkOrderAssigned), 1)

	_, err = fix.service.AssignActor(context.Background(), techActor, "wo-1", "tech-2")
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))
}

func TestListHistory(t *testing.T) {
	fix := newWorkOrderFixture()
	fix.orders.seed(domain.WorkOrder{ID: "wo-1", Status: domain.StatusActive, OwnerID: "o"})

	_, err := fix.service.TransitionStatus(context.Background(), adminActor, "wo-1", domain.StatusCompleted, "")
	require.NoError(t, err)

	entries, err := fix.service.ListHistory(context.Background(), adminActor, "wo-1", 50, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "COMPLETED", entries[0].NewStatus)

	contact := domain.Actor{ID: "c-1", Role: domain.RoleClientContact, Active: true}
	_, err = fix.service.ListHistory(context.Background(), contact, "wo-1", 50, 0)
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))
}
