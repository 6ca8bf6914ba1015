package availability

import (
	"time"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
	"github.com/m04kA/SMC-BeautyBookingService/pkg/types"
)

// generateSlots генерирует слоты дня с начала рабочего окна с шагом step.
// Слот длиной duration не может заканчиваться позже закрытия.
func generateSlots(opens, closes types.TimeString, step, duration int) []domain.Slot {
	slots := make([]domain.Slot, 0)
	current := opens

	for current.IsBefore(closes) {
		window, err := domain.NewTimeWindow(current, duration)
		if err != nil {
			// Слот выходит за пределы суток - дальше слотов нет
			break
		}
		if window.End.IsAfter(closes) {
			break
		}

		slots = append(slots, domain.Slot{
			StartTime:       window.Start,
			EndTime:         window.End,
			DurationMinutes: duration,
		})

		current, err = current.AddMinutes(step)
		if err != nil {
			break
		}
	}

	return slots
}

// splitSlots разделяет слоты на свободные и пересекающиеся с активными бронированиями
func splitSlots(slots []domain.Slot, bookings []*domain.Booking) (*domain.DaySlots, error) {
	day := &domain.DaySlots{
		Available: make([]domain.Slot, 0, len(slots)),
		Booked:    make([]domain.Slot, 0),
	}

	for _, slot := range slots {
		conflicting, err := FindConflict(domain.TimeWindow{Start: slot.StartTime, End: slot.EndTime}, bookings, nil)
		if err != nil {
			return nil, err
		}
		if conflicting != nil {
			day.Booked = append(day.Booked, slot)
		} else {
			day.Available = append(day.Available, slot)
		}
	}

	return day, nil
}

// filterBookable убирает свободные слоты, начало которых не позже now + CreateLead
func filterBookable(slots []domain.Slot, date, now time.Time, policy domain.Policy) []domain.Slot {
	result := make([]domain.Slot, 0, len(slots))
	for _, slot := range slots {
		if policy.IsBookable(policy.StartAt(date, slot.StartTime), now) {
			result = append(result, slot)
		}
	}
	return result
}
