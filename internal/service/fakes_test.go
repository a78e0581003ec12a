package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/fieldops-service/internal/domain"
	"github.com/spec-kit/fieldops-service/internal/events"
	"github.com/spec-kit/fieldops-service/internal/repository"
)

// In-memory repository fakes backing the service tests.

type fakeWorkOrderRepo struct {
	mu     sync.Mutex
	seq    int
	orders map[string]domain.WorkOrder
}

func newFakeWorkOrderRepo() *fakeWorkOrderRepo {
	return &fakeWorkOrderRepo{orders: make(map[string]domain.WorkOrder)}
}

func (r *fakeWorkOrderRepo) Create(_ context.Context, order *domain.WorkOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	order.ID = fmt.Sprintf("wo-%d", r.seq)
	r.orders[order.ID] = *order
	return nil
}

func (r *fakeWorkOrderRepo) Update(_ context.Context, order *domain.WorkOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.orders[order.ID] = *order
	return nil
}

func (r *fakeWorkOrderRepo) GetByID(_ context.Context, id string) (*domain.WorkOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := order
	return &copied, nil
}

func (r *fakeWorkOrderRepo) ListWithFilter(_ context.Context, filter repository.WorkOrderFilter) ([]domain.WorkOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.WorkOrder
	for _, order := range r.orders {
		if filter.AssignedActorID != nil && !order.IsAssigned(*filter.AssignedActorID) {
			continue
		}
		if filter.ClientID != nil && (order.ClientID == nil || *order.ClientID != *filter.ClientID) {
			continue
		}
		result = append(result, order)
	}
	return result, nil
}

func (r *fakeWorkOrderRepo) seed(order domain.WorkOrder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = order
}

type fakeHistoryRepo struct {
	entries []repository.StatusHistoryEntry
}

func (r *fakeHistoryRepo) Create(_ context.Context, entry *repository.StatusHistoryEntry) error {
	entry.ID = fmt.Sprintf("hist-%d", len(r.entries)+1)
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeHistoryRepo) ListByWorkOrder(_ context.Context, workOrderID string, _, _ int) ([]repository.StatusHistoryEntry, error) {
	var result []repository.StatusHistoryEntry
	for _, entry := range r.entries {
		if entry.WorkOrderID == workOrderID {
			result = append(result, entry)
		}
	}
	return result, nil
}

type fakeFileRepo struct {
	seq   int
	files map[string]domain.FileRecord
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{files: make(map[string]domain.FileRecord)}
}

func (r *fakeFileRepo) Create(_ context.Context, file *domain.FileRecord) error {
	r.seq++
	file.ID = fmt.Sprintf("file-%d", r.seq)
	r.files[file.ID] = *file
	return nil
}

func (r *fakeFileRepo) GetByID(_ context.Context, id string) (*domain.FileRecord, error) {
	file, ok := r.files[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := file
	return &copied, nil
}

func (r *fakeFileRepo) UpdateVisibility(_ context.Context, id string, visible bool) error {
	file, ok := r.files[id]
	if !ok {
		return pgx.ErrNoRows
	}
	file.VisibleToClient = visible
	r.files[id] = file
	return nil
}

func (r *fakeFileRepo) ListByWorkOrder(_ context.Context, workOrderID string) ([]domain.FileRecord, error) {
	var result []domain.FileRecord
	for _, file := range r.files {
		if file.WorkOrderID == workOrderID {
			result = append(result, file)
		}
	}
	return result, nil
}

func (r *fakeFileRepo) seed(file domain.FileRecord) {
	r.files[file.ID] = file
}

type grantKey struct {
	workOrderID string
	contactID   string
}

type fakeContactRepo struct {
	clients  map[string]domain.Client
	contacts map[string]domain.Contact
	grants   map[grantKey]domain.ContactGrant
}

func newFakeContactRepo() *fakeContactRepo {
	return &fakeContactRepo{
		clients:  make(map[string]domain.Client),
		contacts: make(map[string]domain.Contact),
		grants:   make(map[grantKey]domain.ContactGrant),
	}
}

func (r *fakeContactRepo) GetClient(_ context.Context, id string) (*domain.Client, error) {
	client, ok := r.clients[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := client
	return &copied, nil
}

func (r *fakeContactRepo) GetByID(_ context.Context, id string) (*domain.Contact, error) {
	contact, ok := r.contacts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := contact
	return &copied, nil
}

func (r *fakeContactRepo) GetByActorID(_ context.Context, actorID string) (*domain.Contact, error) {
	for _, contact := range r.contacts {
		if contact.ActorID != nil && *contact.ActorID == actorID {
			copied := contact
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeContactRepo) ListByClient(_ context.Context, clientID string) ([]domain.Contact, error) {
	var result []domain.Contact
	for _, contact := range r.contacts {
		if contact.ClientID == clientID {
			result = append(result, contact)
		}
	}
	return result, nil
}

func (r *fakeContactRepo) AddGrant(_ context.Context, grant *domain.ContactGrant) error {
	key := grantKey{grant.WorkOrderID, grant.ContactID}
	if _, ok := r.grants[key]; ok {
		return nil
	}
	r.grants[key] = *grant
	return nil
}

func (r *fakeContactRepo) RemoveGrant(_ context.Context, workOrderID, contactID string) error {
	key := grantKey{workOrderID, contactID}
	if _, ok := r.grants[key]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.grants, key)
	return nil
}

func (r *fakeContactRepo) HasGrant(_ context.Context, workOrderID, contactID string) (bool, error) {
	_, ok := r.grants[grantKey{workOrderID, contactID}]
	return ok, nil
}

func (r *fakeContactRepo) ListGrants(_ context.Context, workOrderID string) ([]domain.ContactGrant, error) {
	var result []domain.ContactGrant
	for key, grant := range r.grants {
		if key.workOrderID == workOrderID {
			result = append(result, grant)
		}
	}
	return result, nil
}

type fakeTaskRepo struct {
	tasks map[string]domain.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[string]domain.Task)}
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	task, ok := r.tasks[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := task
	copied.Items = append([]domain.ChecklistItem{}, task.Items...)
	return &copied, nil
}

func (r *fakeTaskRepo) ListByWorkOrder(_ context.Context, workOrderID string) ([]domain.Task, error) {
	var result []domain.Task
	for _, task := range r.tasks {
		if task.WorkOrderID == workOrderID {
			result = append(result, task)
		}
	}
	return result, nil
}

func (r *fakeTaskRepo) UpdateChecklistItem(_ context.Context, item *domain.ChecklistItem) error {
	task, ok := r.tasks[item.TaskID]
	if !ok {
		return pgx.ErrNoRows
	}
	for i := range task.Items {
		if task.Items[i].ID == item.ID {
			task.Items[i] = *item
			r.tasks[item.TaskID] = task
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeHubMessageRepo struct {
	seq      int
	messages []domain.HubMessage
}

func (r *fakeHubMessageRepo) Create(_ context.Context, msg *domain.HubMessage) error {
	r.seq++
	msg.ID = fmt.Sprintf("msg-%d", r.seq)
	r.messages = append(r.messages, *msg)
	return nil
}

func (r *fakeHubMessageRepo) ListByWorkOrder(_ context.Context, workOrderID string) ([]domain.HubMessage, error) {
	var result []domain.HubMessage
	for _, msg := range r.messages {
		if msg.WorkOrderID == workOrderID {
			result = append(result, msg)
		}
	}
	return result, nil
}

// recordingDispatcher captures published events for assertions.
type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) byType(eventType events.EventType) []events.Event {
	var result []events.Event
	for _, event := range d.published {
		if event.Type == eventType {
			result = append(result, event)
		}
	}
	return result
}
