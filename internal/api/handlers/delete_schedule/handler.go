package delete_schedule

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
	msgNotFound          = "расписание не найдено"
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

// Handle DELETE /api/v1/admin/schedules/{kind}/{resourceId} и DELETE /api/v1/admin/schedules/{kind}
// После удаления действует расписание уровнем выше
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	kind, err := domain.ParseResourceKind(vars["kind"])
	if err != nil {
		h.logger.Warn("DELETE /admin/schedules/{kind} - Invalid kind: %v", err)
		handlers.RespondBadRequest(w, msgInvalidKind)
		return
	}

	var resourceID *uuid.UUID
	if _, ok := vars["resourceId"]; ok {
		id, err := handlers.PathUUID(r, "resourceId")
		if err != nil {
			h.logger.Warn("DELETE /admin/schedules/{kind}/{id} - Invalid resource ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidResourceID)
			return
		}
		resourceID = &id
	}

	if err := h.service.Delete(r.Context(), kind, resourceID); err != nil {
		if errors.Is(err, schedule.ErrScheduleNotFound) {
			h.logger.Warn("DELETE /admin/schedules/{kind} - Schedule not found: kind=%s, resource_id=%v", kind, resourceID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("DELETE /admin/schedules/{kind} - Failed to delete schedule: kind=%s, error=%v", kind, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /admin/schedules/{kind} - Schedule deleted: kind=%s, resource_id=%v", kind, resourceID)
	handlers.RespondNoContent(w)
}
