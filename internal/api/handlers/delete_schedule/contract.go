package delete_schedule

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
)

type ScheduleService interface {
	Delete(ctx context.Context, kind domain.ResourceKind, resourceID *uuid.UUID) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
