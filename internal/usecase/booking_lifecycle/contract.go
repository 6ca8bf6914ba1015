package booking_lifecycle

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
	"github.com/m04kA/SMC-BeautyBookingService/internal/integrations/notifier"
	"github.com/m04kA/SMC-BeautyBookingService/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking) error
}

// HistoryRepository интерфейс журнала истории бронирований
type HistoryRepository interface {
	Append(ctx context.Context, entry *domain.HistoryEntry) error
}

// CatalogRepository интерфейс каталога услуг и ресурсов
type CatalogRepository interface {
	GetService(ctx context.Context, kind domain.ResourceKind, serviceID, resourceID uuid.UUID) (*domain.Service, error)
	LockResource(ctx context.Context, ref domain.ResourceRef) (*domain.Resource, error)
	IncrementTotalBookings(ctx context.Context, ref domain.ResourceRef) error
}

// ConflictChecker интерфейс проверки пересечения окна с активными бронированиями
type ConflictChecker interface {
	CheckConflict(ctx context.Context, ref domain.ResourceRef, date time.Time, start types.TimeString, durationMinutes int, excludeID *uuid.UUID) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// SlotCache интерфейс сброса кэша слотов
type SlotCache interface {
	Invalidate(ctx context.Context, ref domain.ResourceRef, date time.Time) error
}

// Notifier интерфейс публикации событий бронирования
type Notifier interface {
	Publish(ctx context.Context, event notifier.BookingEvent) error
}

// Metrics интерфейс бизнес-метрик
type Metrics interface {
	ObserveTransition(action string)
	ObserveSlotConflict(resourceKind string)
	ObserveTxRetry()
	ObserveNotifyFailure()
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
