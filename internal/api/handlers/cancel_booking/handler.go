package cancel_booking

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
	useCase CancelBookingUseCase
	logger  Logger
}

func NewHandler(useCase CancelBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathUUID(r, "bookingId")
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/cancel - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/cancel - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CancelBookingRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/cancel - Invalid request: %v", err)
		handlers.RespondBadRequest(w, handlers.ValidationMessage(err))
		return
	}

	// Отмена через пользовательский API всегда идет с проверкой срока,
	// оператор отменяет через /admin/bookings/{id}/status
	booking, err := h.useCase.Cancel(r.Context(), &lifecycle.CancelRequest{
		BookingID:       bookingID,
		Actor:           lifecycle.Actor{UserID: userID},
		Reason:          req.Reason,
		RefundRequested: req.WantsRefund(),
	})
	if err != nil {
		if handlers.RespondLifecycleError(w, err) {
			h.logger.Warn("POST /bookings/{id}/cancel - Rejected: booking_id=%s, user_id=%s, error=%v", bookingID, userID, err)
		} else {
			h.logger.Error("POST /bookings/{id}/cancel - Failed to cancel booking: booking_id=%s, error=%v", bookingID, err)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/cancel - Booking cancelled successfully: booking=%s, user_id=%s",
		booking.BookingNumber, userID)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainBooking(booking))
}
