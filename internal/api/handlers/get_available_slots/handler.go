package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BeautyBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
	"github.com/m04kA/SMC-BeautyBookingService/internal/usecase/availability"
)

const (
	msgInvalidResourceID = "некорректный ID ресурса"
	msgMissingDate       = "дата обязательна"
	msgInvalidParams     = "некорректный формат даты (YYYY-MM-DD) или ID услуги"
	msgResourceNotFound  = "мастер или опция услуги не найдены"
	msgServiceNotFound   = "услуга не найдена"
)

type Handler struct {
	kind    domain.ResourceKind
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

// NewHandler создает обработчик слотов для вида ресурса kind
func NewHandler(kind domain.ResourceKind, useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		kind:    kind,
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/artists/{resourceId}/available-slots
// и GET /api/v1/service-options/{resourceId}/available-slots
// Query params: date (required, YYYY-MM-DD), serviceId (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resourceID, err := handlers.PathUUID(r, "resourceId")
	if err != nil {
		h.logger.Warn("GET /%s/{id}/available-slots - Invalid resource ID: %v", h.kind, err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /%s/{id}/available-slots - Missing date", h.kind)
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(h.kind, resourceID, dateStr, r.URL.Query().Get("serviceId"))
	if err != nil {
		h.logger.Warn("GET /%s/{id}/available-slots - Invalid parameters: %v", h.kind, err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrResourceNotFound):
			h.logger.Warn("GET /%s/{id}/available-slots - Resource not found: resource_id=%s", h.kind, resourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, availability.ErrServiceNotFound):
			h.logger.Warn("GET /%s/{id}/available-slots - Service not found: resource_id=%s", h.kind, resourceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, availability.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /%s/{id}/available-slots - Failed to get slots: resource_id=%s, error=%v",
				h.kind, resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /%s/{id}/available-slots - Slots retrieved successfully: resource_id=%s, available=%d, booked=%d",
		h.kind, resourceID, len(result.Available), len(result.Booked))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
