package domain

import (
	"fmt"

	"github.com/m04kA/SMC-BeautyBookingService/pkg/types"
)

// TimeWindow is a half-open interval [Start, End) within one day
type TimeWindow struct {
	Start types.TimeString
	End   types.TimeString
}

// NewTimeWindow builds the window of a booking that starts at start and lasts duration minutes.
// A window that would end after midnight is rejected.
func NewTimeWindow(start types.TimeString, durationMinutes int) (TimeWindow, error) {
	if durationMinutes <= 0 {
		return TimeWindow{}, fmt.Errorf("domain: duration must be positive, got %d", durationMinutes)
	}
	end, err := start.AddMinutes(durationMinutes)
	if err != nil {
		return TimeWindow{}, err
	}
	return TimeWindow{Start: start, End: end}, nil
}

// Overlaps tests two half-open windows: back-to-back windows do not overlap
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.Start.IsBefore(other.End) && other.Start.IsBefore(w.End)
}

// Slot is one cell of the daily calendar
type Slot struct {
	StartTime       types.TimeString `json:"start_time"`
	EndTime         types.TimeString `json:"end_time"`
	DurationMinutes int              `json:"duration_minutes"`
}

// DaySlots слоты дня ресурса, разделённые на свободные и занятые
type DaySlots struct {
	Available []Slot `json:"available"`
	Booked    []Slot `json:"booked"`
}
