package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BeautyBookingService/pkg/types"
)

// ScheduleConfig is the daily operating window used to build the slot calendar.
// Supports hierarchical configuration:
// 1. Specific resource (kind, resource_id)
// 2. Kind-wide (kind, NULL)
// 3. Application defaults
type ScheduleConfig struct {
	ID              uuid.UUID
	Kind            ResourceKind
	ResourceID      *uuid.UUID // NULL = config for all resources of the kind
	OpenHour        int
	CloseHour       int
	SlotStepMinutes int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsKindWide returns true if this configuration applies to every resource of its kind
func (c *ScheduleConfig) IsKindWide() bool {
	return c.ResourceID == nil
}

// IsDefault returns true if the configuration was not loaded from storage
func (c *ScheduleConfig) IsDefault() bool {
	return c.ID == uuid.Nil
}

// Opens returns the opening time of the day
func (c *ScheduleConfig) Opens() types.TimeString {
	return hourOfDay(c.OpenHour)
}

// Closes returns the closing time of the day, 24 means midnight
func (c *ScheduleConfig) Closes() types.TimeString {
	return hourOfDay(c.CloseHour)
}

func hourOfDay(hour int) types.TimeString {
	midnight, _ := types.NewTimeStringFromClock(0, 0, 0)
	t, _ := midnight.AddMinutes(hour * 60)
	return t
}
