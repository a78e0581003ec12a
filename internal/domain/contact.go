package domain

import "time"

// Client is the company a work order is performed for.
type Client struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Contact is a client-side person record. ActorID is set when the contact has
// portal access; a nil ActorID means contact-only, no login.
type Contact struct {
	ID        string
	ClientID  string
	ActorID   *string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
}

// ContactGrant exposes an additional contact to a work order's hub beyond the
// primary contact. Removal is a hard delete of the grant row.
type ContactGrant struct {
	WorkOrderID string
	ContactID   string
	GrantedByID string
	CreatedAt   time.Time
}
