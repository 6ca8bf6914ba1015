package bookings

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID uuid.UUID, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByResourceWithFilter(ctx context.Context, filter domain.ResourceBookingsFilter) ([]*domain.Booking, error)
	GetStatsByUser(ctx context.Context, userID uuid.UUID) (*domain.BookingStats, error)
}

// HistoryRepository интерфейс журнала истории бронирований
type HistoryRepository interface {
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*domain.HistoryEntry, error)
}

// RatingRepository интерфейс репозитория отзывов
type RatingRepository interface {
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*domain.Rating, error)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time {
	return time.Now()
}
