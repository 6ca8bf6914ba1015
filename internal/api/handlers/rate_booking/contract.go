package rate_booking

import (
	"context"

	rateBooking "github.com/m04kA/SMC-BeautyBookingService/internal/usecase/rate_booking"
)

type RateBookingUseCase interface {
	Execute(ctx context.Context, req *rateBooking.Request) (*rateBooking.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
