package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BeautyBookingService/pkg/types"
)

// Booking represents a scheduled visit on a resource
type Booking struct {
	ID            uuid.UUID
	BookingNumber string
	UserID        uuid.UUID
	Resource      ResourceRef
	ServiceID     uuid.UUID

	ScheduledDate   time.Time
	ScheduledTime   types.TimeString
	DurationMinutes int

	// Snapshot of the price at creation time
	ServiceName       string
	ServicePrice      int64
	AdditionalCharges int64
	Discount          int64
	TotalAmount       int64

	Status        BookingStatus
	PaymentStatus PaymentStatus
	PaymentMethod *string
	TransactionID *string

	ServiceAddress string
	Latitude       *float64
	Longitude      *float64
	CustomerNotes  *string
	ArtistNotes    *string

	CancellationReason *string
	RefundRequested    bool

	ConfirmedAt *time.Time
	CancelledAt *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BookingNumberFromID derives the short human-readable code from the booking id
func BookingNumberFromID(id uuid.UUID) string {
	return "BK" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
}

// CalculateTotal returns price + additional charges - discount
func CalculateTotal(price, additional, discount int64) int64 {
	return price + additional - discount
}

// IsActive returns true if the booking occupies its time window
func (b *Booking) IsActive() bool {
	return b.Status.IsActive()
}

// Window returns the half-open time window [start, end) of the booking
func (b *Booking) Window() (TimeWindow, error) {
	return NewTimeWindow(b.ScheduledTime, b.DurationMinutes)
}

// StartAt returns the absolute start of the booking in loc
func (b *Booking) StartAt(loc *time.Location) time.Time {
	return b.ScheduledTime.On(b.ScheduledDate, loc)
}

// Transition moves the booking to the next state according to the transition table
// and maintains the lifecycle timestamps
func (b *Booking) Transition(to BookingStatus, at time.Time) error {
	if err := ValidateTransition(b.Status, to); err != nil {
		return err
	}

	switch to {
	case StatusConfirmed:
		if b.ConfirmedAt == nil {
			b.ConfirmedAt = &at
		}
	case StatusCancelled:
		b.CancelledAt = &at
	case StatusCompleted:
		b.CompletedAt = &at
	}

	b.Status = to
	b.UpdatedAt = at
	return nil
}

// ResourceBookingsFilter фильтр для получения бронирований ресурса
type ResourceBookingsFilter struct {
	Resource        ResourceRef    // Обязательный параметр
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли завершённые и отменённые бронирования
}

// IsSingleDate returns true if the filter selects exactly one date
func (f ResourceBookingsFilter) IsSingleDate() bool {
	return f.StartDate != nil && f.EndDate != nil && f.StartDate.Equal(*f.EndDate)
}

// BookingStats per-status counters of a user's bookings
type BookingStats struct {
	Total      int
	ByStatus   map[BookingStatus]int
	TotalSpent int64 // Сумма по завершённым бронированиям
}
