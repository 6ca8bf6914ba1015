package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition_Table(t *testing.T) {
	tests := []struct {
		from BookingStatus
		to   BookingStatus
		ok   bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusRescheduled, true},
		{StatusPending, StatusInProgress, false},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusInProgress, true},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusRescheduled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCancelled, true},
		{StatusInProgress, StatusRescheduled, false},
		{StatusRescheduled, StatusConfirmed, true},
		{StatusRescheduled, StatusCancelled, true},
		{StatusRescheduled, StatusCompleted, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.ok, CanTransition(tt.from, tt.to))
		})
	}
}

func TestValidateTransition_Error(t *testing.T) {
	err := ValidateTransition(StatusCompleted, StatusCancelled)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTransition))

	var te *TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, StatusCompleted, te.From)
	assert.Equal(t, StatusCancelled, te.To)
	assert.Contains(t, err.Error(), "COMPLETED -> CANCELLED")
}

func TestStatus_ActiveAndTerminal(t *testing.T) {
	assert.True(t, StatusPending.IsActive())
	assert.True(t, StatusConfirmed.IsActive())
	assert.True(t, StatusInProgress.IsActive())
	assert.False(t, StatusCompleted.IsActive())
	assert.False(t, StatusCancelled.IsActive())

	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, BookingStatus("bogus").IsTerminal())
}

func TestParseBookingStatus(t *testing.T) {
	s, err := ParseBookingStatus("IN_PROGRESS")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, s)

	_, err = ParseBookingStatus("in_progress")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestBooking_TransitionTimestamps(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	b := &Booking{Status: StatusPending}

	require.NoError(t, b.Transition(StatusConfirmed, now))
	assert.Equal(t, StatusConfirmed, b.Status)
	require.NotNil(t, b.ConfirmedAt)
	assert.Nil(t, b.CompletedAt)
	assert.Nil(t, b.CancelledAt)

	require.NoError(t, b.Transition(StatusCompleted, now.Add(time.Hour)))
	require.NotNil(t, b.CompletedAt)
	assert.Equal(t, now.Add(time.Hour), *b.CompletedAt)
	assert.Nil(t, b.CancelledAt)

	err := b.Transition(StatusCancelled, now.Add(2*time.Hour))
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusCompleted, b.Status)
	assert.Nil(t, b.CancelledAt)
}
