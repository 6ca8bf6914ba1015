package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	Create(ctx context.Context, cfg *domain.ScheduleConfig) error
	GetByKey(ctx context.Context, kind domain.ResourceKind, resourceID *uuid.UUID) (*domain.ScheduleConfig, error)
	GetWithHierarchy(ctx context.Context, ref domain.ResourceRef) (*domain.ScheduleConfig, error)
	Update(ctx context.Context, cfg *domain.ScheduleConfig) error
	DeleteByKey(ctx context.Context, kind domain.ResourceKind, resourceID *uuid.UUID) error
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
