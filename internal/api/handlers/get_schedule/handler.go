package get_schedule

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BeautyBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
)

const (
	msgInvalidKind       = "некорректный вид ресурса"
	msgInvalidResourceID = "некорректный ID ресурса"
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

// Handle GET /api/v1/schedules/{kind}/{resourceId}
// Возвращает действующее расписание: ресурса, вида ресурса или значения по умолчанию
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	kind, err := domain.ParseResourceKind(mux.Vars(r)["kind"])
	if err != nil {
		h.logger.Warn("GET /schedules/{kind}/{id} - Invalid kind: %v", err)
		handlers.RespondBadRequest(w, msgInvalidKind)
		return
	}

	resourceID, err := handlers.PathUUID(r, "resourceId")
	if err != nil {
		h.logger.Warn("GET /schedules/{kind}/{id} - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	ref := domain.ResourceRef{Kind: kind, ID: resourceID}
	result, err := h.service.GetEffective(r.Context(), ref)
	if err != nil {
		h.logger.Error("GET /schedules/{kind}/{id} - Failed to get schedule: resource=%s, error=%v", ref, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /schedules/{kind}/{id} - Schedule retrieved successfully: resource=%s, level=%s",
		ref, result.Level)
	handlers.RespondJSON(w, http.StatusOK, result)
}
