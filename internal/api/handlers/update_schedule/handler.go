package update_schedule

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BeautyBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
	"github.com/m04kA/SMC-BeautyBookingService/internal/service/schedule"
)

const (
	msgInvalidKind       = "некорректный вид ресурса"
	msgInvalidResourceID = "некорректный ID ресурса"
	msgInvalidData       = "некорректные данные расписания"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/admin/schedules/{kind}/{resourceId} и PUT /api/v1/admin/schedules/{kind}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	kind, err := domain.ParseResourceKind(vars["kind"])
	if err != nil {
		h.logger.Warn("PUT /admin/schedules/{kind} - Invalid kind: %v", err)
		handlers.RespondBadRequest(w, msgInvalidKind)
		return
	}

	// Без resourceId расписание задается для всего вида ресурса
	var resourceID *uuid.UUID
	if _, ok := vars["resourceId"]; ok {
		id, err := handlers.PathUUID(r, "resourceId")
		if err != nil {
			h.logger.Warn("PUT /admin/schedules/{kind}/{id} - Invalid resource ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidResourceID)
			return
		}
		resourceID = &id
	}

	var req UpdateScheduleRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		h.logger.Warn("PUT /admin/schedules/{kind} - Invalid request: %v", err)
		handlers.RespondBadRequest(w, handlers.ValidationMessage(err))
		return
	}

	result, err := h.service.Upsert(r.Context(), req.ToServiceRequest(kind, resourceID))
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidInput) {
			h.logger.Warn("PUT /admin/schedules/{kind} - Invalid data: kind=%s, resource_id=%v, error=%v",
				kind, resourceID, err)
			handlers.RespondBadRequest(w, msgInvalidData)
			return
		}
		h.logger.Error("PUT /admin/schedules/{kind} - Failed to update schedule: kind=%s, error=%v", kind, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PUT /admin/schedules/{kind} - Schedule updated successfully: kind=%s, level=%s, window=%s-%s",
		kind, result.Level, result.Opens, result.Closes)
	handlers.RespondJSON(w, http.StatusOK, result)
}
