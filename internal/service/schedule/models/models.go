package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
)

// Уровни иерархии расписаний
const (
	LevelResource = "resource"
	LevelKind     = "kind"
	LevelDefault  = "default"
)

// Request модели

// UpsertScheduleRequest запрос на установку расписания.
// ResourceID = nil задает расписание для всех ресурсов вида.
type UpsertScheduleRequest struct {
	Kind            domain.ResourceKind
	ResourceID      *uuid.UUID
	OpenHour        int
	CloseHour       int
	SlotStepMinutes int
}

// ToDomainConfig конвертирует запрос в domain модель
func (r *UpsertScheduleRequest) ToDomainConfig() *domain.ScheduleConfig {
	return &domain.ScheduleConfig{
		Kind:            r.Kind,
		ResourceID:      r.ResourceID,
		OpenHour:        r.OpenHour,
		CloseHour:       r.CloseHour,
		SlotStepMinutes: r.SlotStepMinutes,
	}
}

// Response модели

// ScheduleResponse ответ с действующим расписанием
type ScheduleResponse struct {
	ID              *uuid.UUID `json:"id,omitempty"`
	ResourceKind    string     `json:"resource_kind"`
	ResourceID      *uuid.UUID `json:"resource_id,omitempty"`
	Level           string     `json:"level"` // resource, kind или default
	OpenHour        int        `json:"open_hour"`
	CloseHour       int        `json:"close_hour"`
	Opens           string     `json:"opens"`
	Closes          string     `json:"closes"`
	SlotStepMinutes int        `json:"slot_step_minutes"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

// FromDomainConfig конвертирует domain модель в DTO
func FromDomainConfig(c *domain.ScheduleConfig) *ScheduleResponse {
	if c == nil {
		return nil
	}

	resp := &ScheduleResponse{
		ResourceKind:    string(c.Kind),
		ResourceID:      c.ResourceID,
		Level:           levelOf(c),
		OpenHour:        c.OpenHour,
		CloseHour:       c.CloseHour,
		Opens:           c.Opens().String(),
		Closes:          c.Closes().String(),
		SlotStepMinutes: c.SlotStepMinutes,
	}
	if !c.IsDefault() {
		id := c.ID
		updatedAt := c.UpdatedAt
		resp.ID = &id
		resp.UpdatedAt = &updatedAt
	}
	return resp
}

func levelOf(c *domain.ScheduleConfig) string {
	switch {
	case c.IsDefault():
		return LevelDefault
	case c.IsKindWide():
		return LevelKind
	default:
		return LevelResource
	}
}
