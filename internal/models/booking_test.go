package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to BookingStatus
		allowed  bool
	}{
		{BookingStatusPending, BookingStatusApproved, true},
		{BookingStatusPending, BookingStatusRejected, true},
		{BookingStatusPending, BookingStatusCancelled, true},
		{BookingStatusApproved, BookingStatusAssigned, true},
		{BookingStatusAssigned, BookingStatusOngoing, true},
		{BookingStatusOngoing, BookingStatusCompleted, true},

		{BookingStatusPending, BookingStatusAssigned, false},
		{BookingStatusApproved, BookingStatusPending, false},
		{BookingStatusApproved, BookingStatusCancelled, false},
		{BookingStatusAssigned, BookingStatusCancelled, false},
		{BookingStatusRejected, BookingStatusApproved, false},
		{BookingStatusCancelled, BookingStatusPending, false},
		{BookingStatusCompleted, BookingStatusOngoing, false},
		{BookingStatusOngoing, BookingStatusAssigned, false},
	}

	for _, tc := range cases {
		got := CanTransition(tc.from, tc.to)
		assert.Equal(t, tc.allowed, got, "%s -> %s", tc.from, tc.to)
	}
}

func TestSetStatus(t *testing.T) {
	b := Booking{Status: BookingStatusPending}

	require.NoError(t, b.SetStatus(BookingStatusApproved))
	assert.Equal(t, BookingStatusApproved, b.Status)

	require.NoError(t, b.SetStatus(BookingStatusAssigned))
	assert.Equal(t, BookingStatusAssigned, b.Status)

	err := b.SetStatus(BookingStatusCancelled)
	require.Error(t, err)
	assert.Equal(t, BookingStatusAssigned, b.Status, "status unchanged after rejected transition")
}

func TestTerminalStatusesHaveNoTransitions(t *testing.T) {
	terminal := []BookingStatus{BookingStatusRejected, BookingStatusCancelled, BookingStatusCompleted}
	all := []BookingStatus{
		BookingStatusPending, BookingStatusApproved, BookingStatusRejected,
		BookingStatusCancelled, BookingStatusAssigned, BookingStatusOngoing,
		BookingStatusCompleted,
	}
	for _, from := range terminal {
		for _, to := range all {
			assert.False(t, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}
