package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
	"github.com/m04kA/SMC-BeautyBookingService/internal/infra/storage/booking"
)

// BookingRepository in-memory репозиторий бронирований
type BookingRepository struct {
	store *Store
}

// Create сохраняет новое бронирование
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	var err error
	r.store.write(func(d *state) {
		if _, ok := d.bookings[b.ID]; ok {
			err = booking.ErrDuplicateBooking
			return
		}
		for _, existing := range d.bookings {
			if existing.BookingNumber == b.BookingNumber {
				err = booking.ErrDuplicateBooking
				return
			}
		}
		d.bookings[b.ID] = *b
	})
	return err
}

// GetByID получает бронирование по ID
func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	var (
		b  domain.Booking
		ok bool
	)
	r.store.read(func(d *state) { b, ok = d.bookings[id] })
	if !ok {
		return nil, booking.ErrBookingNotFound
	}
	return &b, nil
}

// GetByIDForUpdate получает бронирование. Блокировку обеспечивает транзакция хранилища.
func (r *BookingRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	return r.GetByID(ctx, id)
}

// GetByUserID получает бронирования пользователя, опционально по статусу
func (r *BookingRepository) GetByUserID(ctx context.Context, userID uuid.UUID, status *domain.BookingStatus) ([]*domain.Booking, error) {
	result := r.collect(func(b *domain.Booking) bool {
		return b.UserID == userID && (status == nil || b.Status == *status)
	})
	sortByScheduleDesc(result)
	return result, nil
}

// GetActiveByResourceAndDate получает активные бронирования ресурса на дату
func (r *BookingRepository) GetActiveByResourceAndDate(ctx context.Context, ref domain.ResourceRef, date time.Time) ([]*domain.Booking, error) {
	return r.GetByResourceWithFilter(ctx, domain.ResourceBookingsFilter{
		Resource:  ref,
		StartDate: &date,
		EndDate:   &date,
	})
}

// GetByResourceWithFilter получает бронирования ресурса с фильтрацией
func (r *BookingRepository) GetByResourceWithFilter(ctx context.Context, filter domain.ResourceBookingsFilter) ([]*domain.Booking, error) {
	result := r.collect(func(b *domain.Booking) bool {
		if b.Resource != filter.Resource {
			return false
		}
		date := dateOnly(b.ScheduledDate)
		if filter.StartDate != nil && date.Before(dateOnly(*filter.StartDate)) {
			return false
		}
		if filter.EndDate != nil && date.After(dateOnly(*filter.EndDate)) {
			return false
		}
		if filter.Status != nil {
			return b.Status == *filter.Status
		}
		return filter.IncludeInactive || b.IsActive()
	})

	if filter.IsSingleDate() {
		sort.Slice(result, func(i, j int) bool {
			return result[i].ScheduledTime.IsBefore(result[j].ScheduledTime)
		})
	} else {
		sortByScheduleDesc(result)
	}

	return result, nil
}

// Update сохраняет изменяемые поля бронирования
func (r *BookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	var err error
	r.store.write(func(d *state) {
		current, ok := d.bookings[b.ID]
		if !ok {
			err = booking.ErrBookingNotFound
			return
		}

		current.ScheduledDate = b.ScheduledDate
		current.ScheduledTime = b.ScheduledTime
		current.Status = b.Status
		current.PaymentStatus = b.PaymentStatus
		current.PaymentMethod = b.PaymentMethod
		current.TransactionID = b.TransactionID
		current.ArtistNotes = b.ArtistNotes
		current.CancellationReason = b.CancellationReason
		current.RefundRequested = b.RefundRequested
		current.ConfirmedAt = b.ConfirmedAt
		current.CancelledAt = b.CancelledAt
		current.CompletedAt = b.CompletedAt
		current.UpdatedAt = b.UpdatedAt

		d.bookings[b.ID] = current
	})
	return err
}

// GetStatsByUser считает бронирования пользователя по статусам
func (r *BookingRepository) GetStatsByUser(ctx context.Context, userID uuid.UUID) (*domain.BookingStats, error) {
	stats := &domain.BookingStats{ByStatus: make(map[domain.BookingStatus]int)}
	for _, b := range r.collect(func(b *domain.Booking) bool { return b.UserID == userID }) {
		stats.Total++
		stats.ByStatus[b.Status]++
		if b.Status == domain.StatusCompleted {
			stats.TotalSpent += b.TotalAmount
		}
	}
	return stats, nil
}

func (r *BookingRepository) collect(match func(b *domain.Booking) bool) []*domain.Booking {
	result := make([]*domain.Booking, 0)
	r.store.read(func(d *state) {
		for _, b := range d.bookings {
			b := b
			if match(&b) {
				result = append(result, &b)
			}
		}
	})
	return result
}

func sortByScheduleDesc(bookings []*domain.Booking) {
	sort.Slice(bookings, func(i, j int) bool {
		if !bookings[i].ScheduledDate.Equal(bookings[j].ScheduledDate) {
			return bookings[i].ScheduledDate.After(bookings[j].ScheduledDate)
		}
		return bookings[i].ScheduledTime.IsAfter(bookings[j].ScheduledTime)
	})
}
