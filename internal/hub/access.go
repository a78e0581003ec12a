// Package hub gates the client-facing communication surface of a work order.
// Access is decided once per request through the tri-state controller, then
// every item handed to the caller is re-filtered through the visibility
// policy: hub access is necessary but never sufficient.
package hub

import (
	"github.com/spec-kit/fieldops-service/internal/domain"
	"github.com/spec-kit/fieldops-service/internal/policy"
	"github.com/spec-kit/fieldops-service/internal/visibility"
)

// Decision is the tri-state outcome of a hub access check. NoClient is
// distinct from Denied: a work order without a client has no hub to enter,
// and callers render "no client assigned" rather than "access restricted".
type Decision string

const (
	DecisionNoClient Decision = "NO_CLIENT"
	DecisionDenied   Decision = "DENIED"
	DecisionGranted  Decision = "GRANTED"
)

// Permission keys consulted by the controller.
const (
	PermHubView        policy.PermissionKey = "client_hub:view"
	PermHubPostMessage policy.PermissionKey = "client_hub:messages:post"
	PermHubContacts    policy.PermissionKey = "client_hub:manage_contacts"
	PermFilesView      policy.PermissionKey = "files:view"
)

// ContactLink carries the resolved relationship between an actor's contact
// record and a work order's client. Nil when the actor has no contact record
// for that client.
type ContactLink struct {
	ContactID string
	IsPrimary bool
	HasGrant  bool
}

// Payload is the data set surfaced through the hub for one work order.
type Payload struct {
	Messages []domain.HubMessage
	Files    []domain.FileRecord
	Contacts []domain.Contact
}

// Controller composes the permission evaluator with ownership and contact
// facts to answer hub access questions.
type Controller struct {
	eval *policy.Evaluator
}

// NewController builds the access controller.
func NewController(eval *policy.Evaluator) *Controller {
	return &Controller{eval: eval}
}

// Access decides whether the actor may enter the work order's hub.
//
// Granted when the actor owns the work order, holds the staff hub-view
// permission, or is linked to the work order's client as primary or granted
// additional contact. Technicians hold none of these by role and are denied
// unless they own the order. Decisions are per-request, never cached.
func (c *Controller) Access(actor domain.Actor, order domain.WorkOrder, link *ContactLink) Decision {
	if order.ClientID == nil {
		return DecisionNoClient
	}
	if !actor.Active {
		return DecisionDenied
	}
	if actor.ID == order.OwnerID {
		return DecisionGranted
	}
	if c.eval.Allows(actor, PermHubView) {
		return DecisionGranted
	}
	if link != nil && (link.IsPrimary || link.HasGrant) {
		return DecisionGranted
	}
	return DecisionDenied
}

// FilterPayload re-filters hub-bound data per item for the given actor.
// Actors without the internal file-view permission see only client-visible
// files; the contact list is always reduced to the hub-visible set. Callers
// must have already obtained DecisionGranted.
func (c *Controller) FilterPayload(actor domain.Actor, order domain.WorkOrder, payload Payload, granted map[string]bool) Payload {
	filtered := Payload{
		Messages: payload.Messages,
		Files:    payload.Files,
		Contacts: visibility.FilterContacts(order, payload.Contacts, granted),
	}
	if !c.eval.Allows(actor, PermFilesView) {
		filtered.Files = visibility.FilterForClient(payload.Files)
	}
	return filtered
}
