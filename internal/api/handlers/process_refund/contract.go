package process_refund

import (
	"context"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
	lifecycle "github.com/m04kA/SMC-BeautyBookingService/internal/usecase/booking_lifecycle"
)

type RefundUseCase interface {
	ProcessRefund(ctx context.Context, req *lifecycle.RefundRequest) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
