package notifier

import (
	"time"

	"github.com/google/uuid"
)

// BookingEvent событие жизненного цикла бронирования.
// Содержит достаточно данных, чтобы получатель мог уведомить клиента без запроса в БД.
type BookingEvent struct {
	EventID       uuid.UUID  `json:"event_id"`
	Action        string     `json:"action"`
	BookingID     uuid.UUID  `json:"booking_id"`
	BookingNumber string     `json:"booking_number"`
	UserID        uuid.UUID  `json:"user_id"`
	ResourceKind  string     `json:"resource_kind"`
	ResourceID    uuid.UUID  `json:"resource_id"`
	Status        string     `json:"status"`
	ScheduledDate string     `json:"scheduled_date"`
	ScheduledTime string     `json:"scheduled_time"`
	Description   string     `json:"description"`
	PerformedBy   *uuid.UUID `json:"performed_by,omitempty"`
	OccurredAt    time.Time  `json:"occurred_at"`
}
