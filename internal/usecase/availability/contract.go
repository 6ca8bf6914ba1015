package availability

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetActiveByResourceAndDate(ctx context.Context, ref domain.ResourceRef, date time.Time) ([]*domain.Booking, error)
}

// CatalogRepository интерфейс каталога услуг и ресурсов
type CatalogRepository interface {
	GetResource(ctx context.Context, ref domain.ResourceRef) (*domain.Resource, error)
	GetService(ctx context.Context, kind domain.ResourceKind, serviceID, resourceID uuid.UUID) (*domain.Service, error)
}

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	GetWithHierarchy(ctx context.Context, ref domain.ResourceRef) (*domain.ScheduleConfig, error)
}

// SlotCache интерфейс кэша слотов дня
type SlotCache interface {
	Get(ctx context.Context, ref domain.ResourceRef, date time.Time, durationMinutes int) (*domain.DaySlots, error)
	Set(ctx context.Context, ref domain.ResourceRef, date time.Time, durationMinutes int, day *domain.DaySlots) error
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
