package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
	"github.com/m04kA/SMC-BeautyBookingService/internal/infra/storage/rating"
)

// RatingRepository in-memory репозиторий отзывов
type RatingRepository struct {
	store *Store
}

// Create сохраняет отзыв. Второй отзыв на то же бронирование возвращает ErrAlreadyRated.
func (r *RatingRepository) Create(ctx context.Context, rt *domain.Rating) error {
	var err error
	r.store.write(func(d *state) {
		if _, ok := d.ratings[rt.BookingID]; ok {
			err = rating.ErrAlreadyRated
			return
		}
		d.ratings[rt.BookingID] = *rt
	})
	return err
}

// GetByBookingID получает отзыв по id бронирования
func (r *RatingRepository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*domain.Rating, error) {
	var (
		rt domain.Rating
		ok bool
	)
	r.store.read(func(d *state) { rt, ok = d.ratings[bookingID] })
	if !ok {
		return nil, rating.ErrRatingNotFound
	}
	return &rt, nil
}

// AggregateForResource считает среднюю оценку и количество отзывов ресурса
func (r *RatingRepository) AggregateForResource(ctx context.Context, ref domain.ResourceRef) (*domain.RatingAggregate, error) {
	var sum, count int
	r.store.read(func(d *state) {
		for bookingID, rt := range d.ratings {
			b, ok := d.bookings[bookingID]
			if !ok || b.Resource != ref {
				continue
			}
			sum += rt.OverallRating
			count++
		}
	})

	agg := &domain.RatingAggregate{TotalReviews: count}
	if count > 0 {
		agg.AverageRating = float64(sum) / float64(count)
	}
	return agg, nil
}
