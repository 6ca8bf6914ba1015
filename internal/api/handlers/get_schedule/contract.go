package get_schedule

import (
	"context"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
	"github.com/m04kA/SMC-BeautyBookingService/internal/service/schedule/models"
)

type ScheduleService interface {
	GetEffective(ctx context.Context, ref domain.ResourceRef) (*models.ScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
