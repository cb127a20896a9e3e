package appointment

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusScheduled, true},
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},

		{StatusScheduled, StatusConfirmed, true},
		{StatusScheduled, StatusCancelled, true},
		{StatusScheduled, StatusPending, false},

		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusScheduled, false},

		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
	}
	for _, tc := range cases {
		a := &Appointment{Status: tc.from}
		assert.Equal(t, tc.allowed, a.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestCancel(t *testing.T) {
	by := uuid.New()
	a := &Appointment{Status: StatusConfirmed}

	require.NoError(t, a.Cancel("patient request", by))
	assert.Equal(t, StatusCancelled, a.Status)
	assert.Equal(t, "patient request", a.CancellationReason)
	assert.NotNil(t, a.CancelledAt)
	require.NotNil(t, a.CancelledBy)
	assert.Equal(t, by, *a.CancelledBy)
	assert.False(t, a.IsActive())
}

func TestCancel_TerminalStates(t *testing.T) {
	for _, status := range []Status{StatusCompleted, StatusCancelled} {
		a := &Appointment{Status: status}
		assert.ErrorIs(t, a.Cancel("too late", uuid.New()), ErrInvalidStatusTransition, "from %s", status)
	}
}

func TestStatusIsValid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusScheduled, StatusConfirmed, StatusCompleted, StatusCancelled} {
		assert.True(t, s.IsValid())
	}
	assert.False(t, Status("no_show").IsValid())
	assert.False(t, Status("").IsValid())
}
