package booking_lifecycle

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
	"github.com/m04kA/SMC-BeautyBookingService/pkg/types"
)

// Actor пользователь, выполняющий операцию
type Actor struct {
	UserID     uuid.UUID
	IsOperator bool // Оператор может отменять чужие бронирования без ограничения по времени
}

// CreateRequest модель запроса на создание бронирования
type CreateRequest struct {
	UserID         uuid.UUID
	Resource       domain.ResourceRef
	ServiceID      uuid.UUID
	Date           time.Time        // Дата бронирования (без времени)
	StartTime      types.TimeString // Время начала
	ServiceAddress string
	Latitude       *float64
	Longitude      *float64
	CustomerNotes  *string
}

// CancelRequest модель запроса на отмену
type CancelRequest struct {
	BookingID       uuid.UUID
	Actor           Actor
	Reason          string
	RefundRequested bool
}

// RescheduleRequest модель запроса на перенос
type RescheduleRequest struct {
	BookingID uuid.UUID
	Actor     Actor
	NewDate   time.Time
	NewTime   types.TimeString
	Reason    *string
}

// StatusRequest модель запроса оператора на смену статуса
type StatusRequest struct {
	BookingID   uuid.UUID
	Actor       Actor
	Status      domain.BookingStatus
	Reason      *string // Причина отмены, без нее подставляется причина по умолчанию
	ArtistNotes *string
}

// PaymentRequest модель запроса на фиксацию оплаты
type PaymentRequest struct {
	BookingID     uuid.UUID
	Actor         Actor
	PaymentMethod string
	TransactionID *string
}

// RefundRequest модель запроса на возврат оплаты
type RefundRequest struct {
	BookingID uuid.UUID
	Actor     Actor
}
