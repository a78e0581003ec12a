package domain

import "time"

// HubMessage is one entry in a work order's client hub channel. ClientName is
// set when the author is a client contact, for display alongside their name.
type HubMessage struct {
	ID          string
	WorkOrderID string
	AuthorID    string
	AuthorName  string
	ClientName  *string
	Body        string
	CreatedAt   time.Time
}
