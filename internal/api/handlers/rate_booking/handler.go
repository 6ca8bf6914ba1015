package rate_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BeautyBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-BeautyBookingService/internal/api/middleware"
	rateBooking "github.com/m04kA/SMC-BeautyBookingService/internal/usecase/rate_booking"
)

const (
	msgMissingUserID       = "отсутствует ID пользователя"
	msgNotFound            = "бронирование не найдено"
	msgBookingNotCompleted = "оценить можно только завершённое бронирование"
	msgAlreadyRated        = "бронирование уже оценено"
	msgConflict            = "запрос изменён параллельно, повторите"
)

type Handler struct {
	useCase RateBookingUseCase
	logger  Logger
}

func NewHandler(useCase RateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/rate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/rate - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req RateBookingRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		h.logger.Warn("POST /bookings/rate - Invalid request: %v", err)
		handlers.RespondBadRequest(w, handlers.ValidationMessage(err))
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings/rate - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, rateBooking.ErrInvalidRatingValue):
			h.logger.Warn("POST /bookings/rate - Invalid rating: booking_id=%s, error=%v", req.BookingID, err)
			handlers.RespondError(w, http.StatusBadRequest, handlers.CodeInvalidRatingValue, err.Error())

		case errors.Is(err, rateBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings/rate - Invalid input: booking_id=%s, error=%v", req.BookingID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, rateBooking.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/rate - Booking not found: booking_id=%s, user_id=%s", req.BookingID, userID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, rateBooking.ErrBookingNotCompleted):
			h.logger.Warn("POST /bookings/rate - Booking not completed: booking_id=%s", req.BookingID)
			handlers.RespondError(w, http.StatusConflict, handlers.CodeBookingNotCompleted, msgBookingNotCompleted)

		case errors.Is(err, rateBooking.ErrAlreadyRated):
			h.logger.Warn("POST /bookings/rate - Already rated: booking_id=%s", req.BookingID)
			handlers.RespondError(w, http.StatusConflict, handlers.CodeAlreadyRated, msgAlreadyRated)

		case errors.Is(err, rateBooking.ErrConflict):
			h.logger.Warn("POST /bookings/rate - Concurrent modification: booking_id=%s", req.BookingID)
			handlers.RespondError(w, http.StatusConflict, handlers.CodeConflict, msgConflict)

		default:
			h.logger.Error("POST /bookings/rate - Failed to rate booking: booking_id=%s, error=%v", req.BookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/rate - Booking rated successfully: booking_id=%s, rating=%d",
		result.BookingID, result.OverallRating)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
