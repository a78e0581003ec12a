// Package lifecycle implements the work order status state machine. The
// machine does not restrict the transition graph (any status may be requested
// from any other, including re-opening); its sole job is the reason
// invariant: ON_HOLD and CANCELLED always carry a non-blank justification and
// every other status carries none.
//
// Permission checks are the caller's responsibility; the machine answers only
// whether the transition is well-formed.
package lifecycle

import (
	"strings"

	"github.com/spec-kit/fieldops-service/internal/domain"
)

// Outcome is the state a successful transition produces.
type Outcome struct {
	Status domain.WorkOrderStatus
	Reason *string
}

// MissingReasonError rejects a transition into a reason-bearing status
// without a justification. Target lets the caller re-prompt for the same
// status.
type MissingReasonError struct {
	Target domain.WorkOrderStatus
}

func (e *MissingReasonError) Error() string {
	return "status " + string(e.Target) + " requires a reason"
}

// UnknownStatusError rejects a status outside the lifecycle enum.
type UnknownStatusError struct {
	Status domain.WorkOrderStatus
}

func (e *UnknownStatusError) Error() string {
	return "unknown work order status " + string(e.Status)
}

// Transition validates a status change request and returns the resulting
// state. Requesting the status the work order already holds is a legal no-op
// that still re-validates the reason invariant, so a reason on an ON_HOLD or
// CANCELLED order can be updated in place.
func Transition(current, requested domain.WorkOrderStatus, reason string) (Outcome, error) {
	if !current.Valid() {
		return Outcome{}, &UnknownStatusError{Status: current}
	}
	if !requested.Valid() {
		return Outcome{}, &UnknownStatusError{Status: requested}
	}

	reason = strings.TrimSpace(reason)
	if requested.RequiresReason() {
		if reason == "" {
			return Outcome{}, &MissingReasonError{Target: requested}
		}
		return Outcome{Status: requested, Reason: &reason}, nil
	}
	// Reason is cleared on every transition out of a reason-bearing status.
	return Outcome{Status: requested, Reason: nil}, nil
}

// Apply runs Transition against a work order and returns the updated
// snapshot. The input value is not mutated.
func Apply(order domain.WorkOrder, requested domain.WorkOrderStatus, reason string) (domain.WorkOrder, error) {
	outcome, err := Transition(order.Status, requested, reason)
	if err != nil {
		return domain.WorkOrder{}, err
	}
	order.Status = outcome.Status
	order.StatusReason = outcome.Reason
	return order, nil
}
