package get_available_slots

import (
	"context"

	"github.com/m04kA/SMC-BeautyBookingService/internal/usecase/availability"
)

type GetAvailableSlotsUseCase interface {
	Execute(ctx context.Context, req *availability.Request) (*availability.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
