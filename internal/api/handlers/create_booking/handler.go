package create_booking

import (
	"net/http"

	"github.com/m04kA/SMC-BeautyBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-BeautyBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-BeautyBookingService/internal/service/bookings/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateTime    = "некорректная дата (YYYY-MM-DD) или время (HH:MM[:SS])"
	msgMissingUserID      = "отсутствует ID пользователя"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validator().Struct(&req); err != nil {
		h.logger.Warn("POST /bookings - Validation failed: %v", err)
		handlers.RespondBadRequest(w, handlers.ValidationMessage(err))
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	booking, err := h.useCase.Create(r.Context(), useCaseReq)
	if err != nil {
		if handlers.RespondLifecycleError(w, err) {
			h.logger.Warn("POST /bookings - Rejected: user_id=%s, resource=%s, error=%v", userID, useCaseReq.Resource, err)
		} else {
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%s, resource=%s, error=%v",
				userID, useCaseReq.Resource, err)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking=%s, user_id=%s, resource=%s",
		booking.BookingNumber, userID, booking.Resource)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainBooking(booking))
}
