package record_payment

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
	useCase PaymentUseCase
	logger  Logger
}

func NewHandler(useCase PaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/admin/bookings/{bookingId}/payment
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathUUID(r, "bookingId")
	if err != nil {
		h.logger.Warn("POST /admin/bookings/{id}/payment - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	operatorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /admin/bookings/{id}/payment - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req RecordPaymentRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		h.logger.Warn("POST /admin/bookings/{id}/payment - Invalid request: %v", err)
		handlers.RespondBadRequest(w, handlers.ValidationMessage(err))
		return
	}

	booking, err := h.useCase.RecordPayment(r.Context(), &lifecycle.PaymentRequest{
		BookingID:     bookingID,
		Actor:         lifecycle.Actor{UserID: operatorID, IsOperator: true},
		PaymentMethod: req.PaymentMethod,
		TransactionID: req.TransactionID,
	})
	if err != nil {
		if handlers.RespondLifecycleError(w, err) {
			h.logger.Warn("POST /admin/bookings/{id}/payment - Rejected: booking_id=%s, error=%v", bookingID, err)
		} else {
			h.logger.Error("POST /admin/bookings/{id}/payment - Failed to record payment: booking_id=%s, error=%v",
				bookingID, err)
		}
		return
	}

	h.logger.Info("POST /admin/bookings/{id}/payment - Payment recorded: booking=%s, method=%s",
		booking.BookingNumber, req.PaymentMethod)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainBooking(booking))
}
