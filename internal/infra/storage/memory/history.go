package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
)

// HistoryRepository in-memory журнал истории бронирований.
// Записи только добавляются.
type HistoryRepository struct {
	store *Store
}

// Append добавляет запись в журнал
func (r *HistoryRepository) Append(ctx context.Context, entry *domain.HistoryEntry) error {
	r.store.write(func(d *state) {
		d.history = append(d.history, *entry)
	})
	return nil
}

// ListByBooking возвращает записи бронирования в порядке создания
func (r *HistoryRepository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*domain.HistoryEntry, error) {
	result := make([]*domain.HistoryEntry, 0)
	r.store.read(func(d *state) {
		for _, e := range d.history {
			e := e
			if e.BookingID == bookingID {
				result = append(result, &e)
			}
		}
	})
	return result, nil
}
