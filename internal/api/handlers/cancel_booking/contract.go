package cancel_booking

import (
	"context"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
	lifecycle "github.com/m04kA/SMC-BeautyBookingService/internal/usecase/booking_lifecycle"
)

type CancelBookingUseCase interface {
	Cancel(ctx context.Context, req *lifecycle.CancelRequest) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
