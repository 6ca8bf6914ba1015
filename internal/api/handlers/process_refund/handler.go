package process_refund

import (
	"net/http"

	"github.com/m04kA/SMC-BeautyBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-BeautyBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-BeautyBookingService/internal/service/bookings/models"
	lifecycle "github.com/m04kA/SMC-BeautyBookingService/internal/usecase/booking_lifecycle"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgMissingUserID    = "отсутствует ID пользователя"
)

type Handler struct {
	useCase RefundUseCase
	logger  Logger
}

func NewHandler(useCase RefundUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/admin/bookings/{bookingId}/refund
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathUUID(r, "bookingId")
	if err != nil {
		h.logger.Warn("POST /admin/bookings/{id}/refund - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	operatorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /admin/bookings/{id}/refund - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	booking, err := h.useCase.ProcessRefund(r.Context(), &lifecycle.RefundRequest{
		BookingID: bookingID,
		Actor:     lifecycle.Actor{UserID: operatorID, IsOperator: true},
	})
	if err != nil {
		if handlers.RespondLifecycleError(w, err) {
			h.logger.Warn("POST /admin/bookings/{id}/refund - Rejected: booking_id=%s, error=%v", bookingID, err)
		} else {
			h.logger.Error("POST /admin/bookings/{id}/refund - Failed to process refund: booking_id=%s, error=%v",
				bookingID, err)
		}
		return
	}

	h.logger.Info("POST /admin/bookings/{id}/refund - Refund processed: booking=%s", booking.BookingNumber)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainBooking(booking))
}
