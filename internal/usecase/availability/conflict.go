package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
	"github.com/m04kA/SMC-BeautyBookingService/pkg/types"
)

// FindConflict возвращает первое активное бронирование, окно которого пересекается с window.
// Пересечение проверяется по полуоткрытым интервалам [start, end):
// бронирования, граничащие друг с другом, не конфликтуют.
// Бронирование excludeID (переносимое) не учитывается.
func FindConflict(window domain.TimeWindow, bookings []*domain.Booking, excludeID *uuid.UUID) (*domain.Booking, error) {
	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		if excludeID != nil && b.ID == *excludeID {
			continue
		}

		existing, err := b.Window()
		if err != nil {
			return nil, fmt.Errorf("booking %s has invalid window: %w", b.BookingNumber, err)
		}

		if window.Overlaps(existing) {
			return b, nil
		}
	}

	return nil, nil
}

// Checker проверяет окно бронирования на конфликт с активными бронированиями ресурса.
// Внутри транзакции репозиторий блокирует строки дня (FOR UPDATE),
// поэтому проверка и последующая запись не пересекаются с другими транзакциями по тому же ресурсу и дате.
type Checker struct {
	bookingRepo BookingRepository
}

// NewChecker создает проверку конфликтов
func NewChecker(bookingRepo BookingRepository) *Checker {
	return &Checker{bookingRepo: bookingRepo}
}

// CheckConflict возвращает ErrSlotConflict с номером конфликтующего бронирования,
// ErrInvalidWindow для окна, выходящего за пределы суток, или nil
func (c *Checker) CheckConflict(
	ctx context.Context,
	ref domain.ResourceRef,
	date time.Time,
	start types.TimeString,
	durationMinutes int,
	excludeID *uuid.UUID,
) error {
	window, err := domain.NewTimeWindow(start, durationMinutes)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWindow, err)
	}

	bookings, err := c.bookingRepo.GetActiveByResourceAndDate(ctx, ref, date)
	if err != nil {
		return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	conflicting, err := FindConflict(window, bookings, excludeID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if conflicting != nil {
		return fmt.Errorf("%w: overlaps booking %s at %s", ErrSlotConflict, conflicting.BookingNumber, conflicting.ScheduledTime)
	}

	return nil
}
