package update_schedule

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
	"github.com/m04kA/SMC-BeautyBookingService/internal/service/schedule/models"
)

// UpdateScheduleRequest HTTP request model.
// Границы значений проверяет сервис.
type UpdateScheduleRequest struct {
	OpenHour        int `json:"open_hour"`
	CloseHour       int `json:"close_hour" validate:"required"`
	SlotStepMinutes int `json:"slot_step_minutes" validate:"required"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateScheduleRequest) ToServiceRequest(kind domain.ResourceKind, resourceID *uuid.UUID) *models.UpsertScheduleRequest {
	return &models.UpsertScheduleRequest{
		Kind:            kind,
		ResourceID:      resourceID,
		OpenHour:        r.OpenHour,
		CloseHour:       r.CloseHour,
		SlotStepMinutes: r.SlotStepMinutes,
	}
}
