package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/fieldops-service/internal/domain"
	"github.com/spec-kit/fieldops-service/internal/events"
	"github.com/spec-kit/fieldops-service/internal/hub"
	"github.com/spec-kit/fieldops-service/internal/policy"
	"github.com/spec-kit/fieldops-service/internal/repository"
	apperrors "github.com/spec-kit/fieldops-service/pkg/util"
)

// HubService exposes the client hub: the access decision, the filtered view,
// the message channel, and additional-contact grants.
type HubService struct {
	orders     repository.WorkOrderRepository
	contacts   repository.ContactRepository
	files      repository.FileRepository
	messages   repository.HubMessageRepository
	controller *hub.Controller
	eval       *policy.Evaluator
	dispatcher events.Dispatcher
}

// HubDependencies bundles collaborators for the hub service.
type HubDependencies struct {
	OrderRepo   repository.WorkOrderRepository
	ContactRepo repository.ContactRepository
	FileRepo    repository.FileRepository
	MessageRepo repository.HubMessageRepository
	Evaluator   *policy.Evaluator
	Dispatcher  events.Dispatcher
}

// HubView is the hub payload plus the decision that produced it.
type HubView struct {
	Decision hub.Decision
	Messages []domain.HubMessage
	Files    []domain.FileRecord
	Contacts []domain.Contact
}

// NewHubService constructs the service.
func NewHubService(deps HubDependencies) *HubService {
	return &HubService{
		orders:     deps.OrderRepo,
		contacts:   deps.ContactRepo,
		files:      deps.FileRepo,
		messages:   deps.MessageRepo,
		controller: hub.NewController(deps.Evaluator),
		eval:       deps.Evaluator,
		dispatcher: deps.Dispatcher,
	}
}

// Access answers the tri-state hub access question for one work order.
func (s *HubService) Access(ctx context.Context, actor domain.Actor, workOrderID string) (hub.Decision, error) {
	order, err := s.orders.GetByID(ctx, workOrderID)
	if err != nil {
		return "", apperrors.MapError(err)
	}
	decision, _, err := s.decide(ctx, actor, order)
	return decision, err
}

// View returns the hub payload for a granted actor, with every item
// re-filtered through the visibility policy.
func (s *HubService) View(ctx context.Context, actor domain.Actor, workOrderID string) (*HubView, error) {
	order, err := s.orders.GetByID(ctx, workOrderID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	decision, _, err := s.decide(ctx, actor, order)
	if err != nil {
		return nil, err
	}
	if decision != hub.DecisionGranted {
		return &HubView{Decision: decision}, nil
	}

	msgs, err := s.messages.ListByWorkOrder(ctx, order.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	files, err := s.files.ListByWorkOrder(ctx, order.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	contacts, err := s.contacts.ListByClient(ctx, *order.ClientID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	granted, err := s.grantSet(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	payload := s.controller.FilterPayload(actor, *order, hub.Payload{
		Messages: msgs,
		Files:    files,
		Contacts: contacts,
	}, granted)

	return &HubView{
		Decision: decision,
		Messages: payload.Messages,
		Files:    payload.Files,
		Contacts: payload.Contacts,
	}, nil
}

// PostMessage appends a message to the hub channel. Client-contact authors
// are tagged with their company name for display.
func (s *HubService) PostMessage(ctx context.Context, actor domain.Actor, workOrderID, body string) (*domain.HubMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewValidationError("body required", nil)
	}
	order, err := s.orders.GetByID(ctx, workOrderID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	decision, link, err := s.decide(ctx, actor, order)
	if err != nil {
		return nil, err
	}
	if decision != hub.DecisionGranted {
		return nil, apperrors.NewForbidden("hub access denied")
	}
	if !s.eval.Allows(actor, hub.PermHubPostMessage) && actor.ID != order.OwnerID {
		return nil, apperrors.NewForbidden("not allowed to post hub messages")
	}

	msg := &domain.HubMessage{
		WorkOrderID: order.ID,
		AuthorID:    actor.ID,
		AuthorName:  actor.DisplayName,
		Body:        body,
	}
	if link != nil {
		client, err := s.contacts.GetClient(ctx, *order.ClientID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		msg.ClientName = &client.Name
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.Event{
		Type:        events.EventHubMessagePosted,
		WorkOrderID: order.ID,
		Actor:       eventActor(actor),
		Payload: events.HubMessagePostedPayload{
			MessageID:   msg.ID,
			AuthorID:    msg.AuthorID,
			ClientName:  msg.ClientName,
			BodyPreview: bodyPreview(msg.Body, 120),
		},
	})
	return msg, nil
}

// AddContactGrant exposes an additional contact to the work order's hub.
func (s *HubService) AddContactGrant(ctx context.Context, actor domain.Actor, workOrderID, contactID string) error {
	if !s.eval.Allows(actor, hub.PermHubContacts) {
		return apperrors.NewForbidden("not allowed to manage hub contacts")
	}
	order, err := s.orders.GetByID(ctx, workOrderID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if order.ClientID == nil {
		return apperrors.NewValidationError("work order has no client", nil)
	}
	contact, err := s.contacts.GetByID(ctx, contactID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if contact.ClientID != *order.ClientID {
		return apperrors.NewValidationError("contact does not belong to the work order's client", nil)
	}

	grant := &domain.ContactGrant{
		WorkOrderID: order.ID,
		ContactID:   contact.ID,
		GrantedByID: actor.ID,
	}
	if err := s.contacts.AddGrant(ctx, grant); err != nil {
		return apperrors.MapError(err)
	}
	s.publish(ctx, events.Event{
		Type:        events.EventContactGrantAdded,
		WorkOrderID: order.ID,
		Actor:       eventActor(actor),
		Payload:     events.ContactGrantPayload{ContactID: contact.ID},
	})
	return nil
}

// RemoveContactGrant hard-deletes an additional-contact grant. Already
// rendered hub history is not retroactively hidden.
func (s *HubService) RemoveContactGrant(ctx context.Context, actor domain.Actor, workOrderID, contactID string) error {
	if !s.eval.Allows(actor, hub.PermHubContacts) {
		return apperrors.NewForbidden("not allowed to manage hub contacts")
	}
	if err := s.contacts.RemoveGrant(ctx, workOrderID, contactID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("contact grant", nil)
		}
		return apperrors.MapError(err)
	}
	s.publish(ctx, events.Event{
		Type:        events.EventContactGrantRemoved,
		WorkOrderID: workOrderID,
		Actor:       eventActor(actor),
		Payload:     events.ContactGrantPayload{ContactID: contactID},
	})
	return nil
}

// decide resolves the actor's contact link and runs the access controller.
// The link is also returned so PostMessage can tag client authors.
func (s *HubService) decide(ctx context.Context, actor domain.Actor, order *domain.WorkOrder) (hub.Decision, *hub.ContactLink, error) {
	var link *hub.ContactLink
	if order.ClientID != nil {
		contact, err := s.contacts.GetByActorID(ctx, actor.ID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return "", nil, apperrors.MapError(err)
		}
		if contact != nil && contact.ClientID == *order.ClientID {
			hasGrant, err := s.contacts.HasGrant(ctx, order.ID, contact.ID)
			if err != nil {
				return "", nil, apperrors.MapError(err)
			}
			link = &hub.ContactLink{
				ContactID: contact.ID,
				IsPrimary: order.PMID != nil && *order.PMID == contact.ID,
				HasGrant:  hasGrant,
			}
		}
	}
	return s.controller.Access(actor, *order, link), link, nil
}

func (s *HubService) grantSet(ctx context.Context, workOrderID string) (map[string]bool, error) {
	grants, err := s.contacts.ListGrants(ctx, workOrderID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	granted := make(map[string]bool, len(grants))
	for _, grant := range grants {
		granted[grant.ContactID] = true
	}
	return granted, nil
}

func (s *HubService) publish(ctx context.Context, event events.Event) {
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

func bodyPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
