package domain

import (
	"time"

	"github.com/m04kA/SMC-BeautyBookingService/pkg/types"
)

// Policy правила сроков бронирования.
// Дата и время бронирования интерпретируются в часовом поясе Location.
type Policy struct {
	Location       *time.Location
	CreateLead     time.Duration // новое бронирование: начало строго позже now + CreateLead
	CancelLead     time.Duration // отмена пользователем: до начала не меньше CancelLead
	RescheduleLead time.Duration // перенос: исходное и новое время не ближе RescheduleLead
	HistoryPreview int
}

func DefaultPolicy() Policy {
	return Policy{
		Location:       time.UTC,
		CreateLead:     DefaultCreateLeadMinutes * time.Minute,
		CancelLead:     DefaultCancelLeadMinutes * time.Minute,
		RescheduleLead: DefaultRescheduleMinutes * time.Minute,
		HistoryPreview: DefaultHistoryPreview,
	}
}

func (p Policy) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

// StartOf момент начала бронирования
func (p Policy) StartOf(b *Booking) time.Time {
	return b.StartAt(p.location())
}

// StartAt момент начала для даты и времени запроса
func (p Policy) StartAt(date time.Time, at types.TimeString) time.Time {
	return at.On(date, p.location())
}

// IsBookable начало строго позже now + CreateLead
func (p Policy) IsBookable(start, now time.Time) bool {
	return start.After(now.Add(p.CreateLead))
}

// CanCancel пользователь может отменить активное бронирование не позже чем за CancelLead до начала
func (p Policy) CanCancel(b *Booking, now time.Time) bool {
	if !CanTransition(b.Status, StatusCancelled) {
		return false
	}
	return p.StartOf(b).Sub(now) >= p.CancelLead
}

// CanReschedule перенос возможен из PENDING или CONFIRMED, если до исходного начала не меньше RescheduleLead
func (p Policy) CanReschedule(b *Booking, now time.Time) bool {
	if !CanTransition(b.Status, StatusRescheduled) {
		return false
	}
	return p.StartOf(b).Sub(now) >= p.RescheduleLead
}

// IsReschedulableTo новое время строго позже now + RescheduleLead
func (p Policy) IsReschedulableTo(start, now time.Time) bool {
	return start.After(now.Add(p.RescheduleLead))
}
