package domain

import (
	"errors"
	"fmt"
)

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	StatusPending     BookingStatus = "PENDING"
	StatusConfirmed   BookingStatus = "CONFIRMED"
	StatusInProgress  BookingStatus = "IN_PROGRESS"
	StatusCompleted   BookingStatus = "COMPLETED"
	StatusCancelled   BookingStatus = "CANCELLED"
	StatusRescheduled BookingStatus = "RESCHEDULED"
)

// ErrInvalidTransition is matched by every TransitionError
var ErrInvalidTransition = errors.New("domain: invalid status transition")

// ErrUnknownStatus is returned when a status string is not part of the lifecycle
var ErrUnknownStatus = errors.New("domain: unknown booking status")

// transitions is the only place where legal lifecycle moves are defined
var transitions = map[BookingStatus][]BookingStatus{
	StatusPending:     {StatusConfirmed, StatusCancelled, StatusRescheduled},
	StatusConfirmed:   {StatusInProgress, StatusCompleted, StatusCancelled, StatusRescheduled},
	StatusInProgress:  {StatusCompleted, StatusCancelled},
	StatusRescheduled: {StatusConfirmed, StatusCancelled},
	StatusCompleted:   {},
	StatusCancelled:   {},
}

// TransitionError names the current and the requested state of a rejected transition
type TransitionError struct {
	From BookingStatus
	To   BookingStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

// Is makes errors.Is(err, ErrInvalidTransition) work for any TransitionError
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// CanTransition reports whether the table allows moving from one state to another
func CanTransition(from, to BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns a *TransitionError when the move is not in the table
func ValidateTransition(from, to BookingStatus) error {
	if !CanTransition(from, to) {
		return &TransitionError{From: from, To: to}
	}
	return nil
}

// IsActive reports whether bookings in this state occupy their resource's time window
func (s BookingStatus) IsActive() bool {
	for _, active := range ActiveStatuses {
		if s == active {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leads out of this state
func (s BookingStatus) IsTerminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// ParseBookingStatus validates a status string
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if _, ok := transitions[status]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return status, nil
}

// PaymentStatus represents the payment state of a booking
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentRefunded PaymentStatus = "REFUNDED"
)
