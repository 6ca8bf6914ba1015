package get_resource_bookings

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BeautyBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-BeautyBookingService/internal/service/bookings"
)

const (
	msgInvalidResourceID = "некорректный ID ресурса"
	msgInvalidParams     = "некорректные параметры запроса"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/resources/{kind}/{resourceId}/bookings
// Query params: startDate, endDate, status, includeInactive (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resourceID, err := handlers.PathUUID(r, "resourceId")
	if err != nil {
		h.logger.Warn("GET /admin/resources/{kind}/{id}/bookings - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	query := r.URL.Query()
	serviceReq, err := ToServiceRequest(
		mux.Vars(r)["kind"],
		resourceID,
		query.Get("startDate"),
		query.Get("endDate"),
		query.Get("status"),
		query.Get("includeInactive"),
	)
	if err != nil {
		h.logger.Warn("GET /admin/resources/{kind}/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.GetResourceBookings(r.Context(), serviceReq)
	if err != nil {
		if errors.Is(err, bookings.ErrInvalidInput) {
			h.logger.Warn("GET /admin/resources/{kind}/{id}/bookings - Invalid filter: resource=%s, error=%v",
				serviceReq.Resource, err)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
		h.logger.Error("GET /admin/resources/{kind}/{id}/bookings - Failed to get bookings: resource=%s, error=%v",
			serviceReq.Resource, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /admin/resources/{kind}/{id}/bookings - Bookings retrieved successfully: resource=%s, count=%d",
		serviceReq.Resource, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
