package domain

import (
	"time"

	"github.com/google/uuid"
)

// HistoryAction is the fixed vocabulary of audit trail entries
type HistoryAction string

const (
	ActionCreated         HistoryAction = "CREATED"
	ActionConfirmed       HistoryAction = "CONFIRMED"
	ActionInProgress      HistoryAction = "IN_PROGRESS"
	ActionCancelled       HistoryAction = "CANCELLED"
	ActionRescheduled     HistoryAction = "RESCHEDULED"
	ActionCompleted       HistoryAction = "COMPLETED"
	ActionPaymentReceived HistoryAction = "PAYMENT_RECEIVED"
	ActionRefundProcessed HistoryAction = "REFUND_PROCESSED"
)

// HistoryEntry is an immutable audit trail record of a booking
type HistoryEntry struct {
	ID          uuid.UUID
	BookingID   uuid.UUID
	Action      HistoryAction
	Description string
	PerformedBy *uuid.UUID
	CreatedAt   time.Time
}

// ActionForStatus returns the audit action written when a booking enters status
func ActionForStatus(status BookingStatus) (HistoryAction, bool) {
	switch status {
	case StatusConfirmed:
		return ActionConfirmed, true
	case StatusInProgress:
		return ActionInProgress, true
	case StatusCancelled:
		return ActionCancelled, true
	case StatusCompleted:
		return ActionCompleted, true
	case StatusRescheduled:
		return ActionRescheduled, true
	default:
		return "", false
	}
}
