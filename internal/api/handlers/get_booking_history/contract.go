package get_booking_history

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BeautyBookingService/internal/service/bookings/models"
)

type BookingService interface {
	GetHistory(ctx context.Context, id uuid.UUID, viewer models.Viewer) (*models.HistoryListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
