package update_booking_status

import (
	"net/http"

	"github.com/m04kA/SMC-BeautyBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-BeautyBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-BeautyBookingService/internal/service/bookings/models"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgMissingUserID    = "отсутствует ID пользователя"
)

type Handler struct {
	useCase StatusUseCase
	logger  Logger
}

func NewHandler(useCase StatusUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/admin/bookings/{bookingId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathUUID(r, "bookingId")
	if err != nil {
		h.logger.Warn("POST /admin/bookings/{id}/status - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	operatorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /admin/bookings/{id}/status - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateStatusRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		h.logger.Warn("POST /admin/bookings/{id}/status - Invalid request: %v", err)
		handlers.RespondBadRequest(w, handlers.ValidationMessage(err))
		return
	}

	booking, err := h.useCase.ChangeStatus(r.Context(), req.ToUseCaseRequest(bookingID, operatorID))
	if err != nil {
		if handlers.RespondLifecycleError(w, err) {
			h.logger.Warn("POST /admin/bookings/{id}/status - Rejected: booking_id=%s, status=%s, error=%v",
				bookingID, req.Status, err)
		} else {
			h.logger.Error("POST /admin/bookings/{id}/status - Failed to change status: booking_id=%s, error=%v",
				bookingID, err)
		}
		return
	}

	h.logger.Info("POST /admin/bookings/{id}/status - Status changed: booking=%s, status=%s, operator_id=%s",
		booking.BookingNumber, booking.Status, operatorID)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainBooking(booking))
}
