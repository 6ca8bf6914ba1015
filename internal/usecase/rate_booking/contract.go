package rate_booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
}

// RatingRepository интерфейс репозитория отзывов
type RatingRepository interface {
	Create(ctx context.Context, rating *domain.Rating) error
	AggregateForResource(ctx context.Context, ref domain.ResourceRef) (*domain.RatingAggregate, error)
}

// CatalogRepository интерфейс обновления агрегатов ресурса
type CatalogRepository interface {
	LockResource(ctx context.Context, ref domain.ResourceRef) (*domain.Resource, error)
	UpdateRatingAggregate(ctx context.Context, ref domain.ResourceRef, agg domain.RatingAggregate) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
