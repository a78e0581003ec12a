package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkOrderStatusValid(t *testing.T) {
	for _, status := range []WorkOrderStatus{
		StatusOpen, StatusActive, StatusOnHold, StatusCompleted,
		StatusSubmitted, StatusInvoiced, StatusCancelled,
	} {
		assert.True(t, status.Valid(), string(status))
	}
	assert.False(t, WorkOrderStatus("ARCHIVED").Valid())
	assert.False(t, WorkOrderStatus("").Valid())
	assert.False(t, WorkOrderStatus("open").Valid())
}

func TestRequiresReason(t *testing.T) {
	assert.True(t, StatusOnHold.RequiresReason())
	assert.True(t, StatusCancelled.RequiresReason())
	assert.False(t, StatusOpen.RequiresReason())
	assert.False(t, StatusCompleted.RequiresReason())
}

func TestCheckReasonInvariantClearsStrayReason(t *testing.T) {
	stray := "left over"
	order := WorkOrder{Status: StatusActive, StatusReason: &stray}

	require.NoError(t, order.CheckReasonInvariant())
	assert.Nil(t, order.StatusReason)
}

func TestCheckReasonInvariantReportsMissingReason(t *testing.T) {
	order := WorkOrder{Status: StatusOnHold}

	err := order.CheckReasonInvariant()
	require.Error(t, err)

	var invariant *ReasonInvariantError
	require.ErrorAs(t, err, &invariant)
	assert.Equal(t, StatusOnHold, invariant.Status)

	empty := ""
	order = WorkOrder{Status: StatusCancelled, StatusReason: &empty}
	require.ErrorAs(t, order.CheckReasonInvariant(), &invariant)
}

func TestCheckReasonInvariantAcceptsWellFormed(t *testing.T) {
	reason := "waiting on parts"
	order := WorkOrder{Status: StatusOnHold, StatusReason: &reason}

	require.NoError(t, order.CheckReasonInvariant())
	require.NotNil(t, order.StatusReason)
	assert.Equal(t, "waiting on parts", *order.StatusReason)
}

func TestIsAssigned(t *testing.T) {
	order := WorkOrder{
		AssignedActorIDs: []string{"a1", "a2"},
		TeamActorIDs:     []string{"a3"},
	}

	assert.True(t, order.IsAssigned("a1"))
	assert.True(t, order.IsAssigned("a3"))
	assert.False(t, order.IsAssigned("a4"))
	assert.False(t, order.IsAssigned(""))
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("ADMIN"))
	assert.Equal(t, RoleOfficeStaff, ParseRole("OFFICE_STAFF"))
	assert.Equal(t, RoleTechnician, ParseRole("TECHNICIAN"))
	assert.Equal(t, RoleClientContact, ParseRole("CLIENT_CONTACT"))
	assert.Equal(t, RoleUnknown, ParseRole("SUPERUSER"))
	assert.Equal(t, RoleUnknown, ParseRole(""))
}
