package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/fieldops-service/internal/domain"
)

func TestTransitionIntoOnHoldRequiresReason(t *testing.T) {
	_, err := Transition(domain.StatusActive, domain.StatusOnHold, "")
	require.Error(t, err)

	var missing *MissingReasonError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, domain.StatusOnHold, missing.Target)
}

func TestTransitionIntoOnHoldWithReason(t *testing.T) {
	outcome, err := Transition(domain.StatusActive, domain.StatusOnHold, "waiting on parts")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOnHold, outcome.Status)
	require.NotNil(t, outcome.Reason)
	assert.Equal(t, "waiting on parts", *outcome.Reason)
}

func TestTransitionIntoCancelledRequiresReason(t *testing.T) {
	_, err := Transition(domain.StatusOpen, domain.StatusCancelled, "   ")
	var missing *MissingReasonError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, domain.StatusCancelled, missing.Target)
}

func TestTransitionOutOfOnHoldClearsReason(t *testing.T) {
	outcome, err := Transition(domain.StatusOnHold, domain.StatusCompleted, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, outcome.Status)
	assert.Nil(t, outcome.Reason)
}

func TestTransitionTrimsReason(t *testing.T) {
	outcome, err := Transition(domain.StatusActive, domain.StatusCancelled, "  client withdrew  ")
	require.NoError(t, err)
	require.NotNil(t, outcome.Reason)
	assert.Equal(t, "client withdrew", *outcome.Reason)
}

func TestTransitionSameStatusUpdatesReason(t *testing.T) {
	// Re-requesting ON_HOLD is a no-op transition that still accepts a new
	// justification.
	outcome, err := Transition(domain.StatusOnHold, domain.StatusOnHold, "revised estimate pending")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOnHold, outcome.Status)
	require.NotNil(t, outcome.Reason)
	assert.Equal(t, "revised estimate pending", *outcome.Reason)
}

func TestTransitionSameStatusStillEnforcesReason(t *testing.T) {
	_, err := Transition(domain.StatusOnHold, domain.StatusOnHold, "")
	var missing *MissingReasonError
	require.ErrorAs(t, err, &missing)
}

func TestTransitionAnyToAny(t *testing.T) {
	// The graph is unrestricted; re-opening an invoiced order is legal.
	outcome, err := Transition(domain.StatusInvoiced, domain.StatusOpen, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOpen, outcome.Status)

	outcome, err = Transition(domain.StatusCancelled, domain.StatusActive, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, outcome.Status)
}

func TestTransitionUnknownStatus(t *testing.T) {
	_, err := Transition(domain.StatusOpen, domain.WorkOrderStatus("ARCHIVED"), "")
	var unknown *UnknownStatusError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, domain.WorkOrderStatus("ARCHIVED"), unknown.Status)

	_, err = Transition(domain.WorkOrderStatus(""), domain.StatusOpen, "")
	require.ErrorAs(t, err, &unknown)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	order := domain.WorkOrder{ID: "wo-1", Status: domain.StatusActive}

	updated, err := Apply(order, domain.StatusOnHold, "crew reassigned")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusActive, order.Status)
	assert.Nil(t, order.StatusReason)
	assert.Equal(t, domain.StatusOnHold, updated.Status)
	require.NotNil(t, updated.StatusReason)
	assert.Equal(t, "crew reassigned", *updated.StatusReason)
}

func TestApplyClearsCarriedReason(t *testing.T) {
	reason := "waiting on parts"
	order := domain.WorkOrder{ID: "wo-1", Status: domain.StatusOnHold, StatusReason: &reason}

	updated, err := Apply(order, domain.StatusActive, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, updated.Status)
	assert.Nil(t, updated.StatusReason)
}
