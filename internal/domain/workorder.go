package domain

import "time"

// WorkOrderStatus enumerates lifecycle states for work orders.
type WorkOrderStatus string

const (
	StatusOpen      WorkOrderStatus = "OPEN"
	StatusActive    WorkOrderStatus = "ACTIVE"
	StatusOnHold    WorkOrderStatus = "ON_HOLD"
	StatusCompleted WorkOrderStatus = "COMPLETED"
	StatusSubmitted WorkOrderStatus = "SUBMITTED"
	StatusInvoiced  WorkOrderStatus = "INVOICED"
	StatusCancelled WorkOrderStatus = "CANCELLED"
)

// Valid reports whether the status is a known lifecycle state.
func (s WorkOrderStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusActive, StatusOnHold, StatusCompleted,
		StatusSubmitted, StatusInvoiced, StatusCancelled:
		return true
	}
	return false
}

// RequiresReason reports whether the status must carry a justification.
func (s WorkOrderStatus) RequiresReason() bool {
	return s == StatusOnHold || s == StatusCancelled
}

// WorkOrder is the aggregate for a field-service job. StatusReason is non-nil
// iff Status requires one; the lifecycle machine maintains the invariant and
// CheckReasonInvariant re-verifies it on persistence loads.
type WorkOrder struct {
	ID               string
	ExternalKey      string
	Title            string
	Description      string
	Status           WorkOrderStatus
	StatusReason     *string
	OwnerID          string
	ClientID         *string
	PMID             *string
	AssignedActorIDs []string
	TeamActorIDs     []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CheckReasonInvariant verifies the status/reason pairing. Stray reasons on
// statuses that do not carry one are cleared in place; a reason-bearing status
// without a reason is reported as corrupt.
func (w *WorkOrder) CheckReasonInvariant() error {
	if w.Status.RequiresReason() {
		if w.StatusReason == nil || *w.StatusReason == "" {
			return &ReasonInvariantError{Status: w.Status}
		}
		return nil
	}
	w.StatusReason = nil
	return nil
}

// IsAssigned reports whether the actor is on the work order's assignment or
// team list.
func (w *WorkOrder) IsAssigned(actorID string) bool {
	for _, id := range w.AssignedActorIDs {
		if id == actorID {
			return true
		}
	}
	for _, id := range w.TeamActorIDs {
		if id == actorID {
			return true
		}
	}
	return false
}

// ReasonInvariantError signals a stored work order whose reason-bearing
// status lacks a justification.
type ReasonInvariantError struct {
	Status WorkOrderStatus
}

func (e *ReasonInvariantError) Error() string {
	return "work order status " + string(e.Status) + " is missing its status reason"
}
