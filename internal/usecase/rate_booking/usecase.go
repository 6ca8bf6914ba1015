package rate_booking

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BeautyBookingService/internal/infra/storage/booking"
	ratingRepo "github.com/m04kA/SMC-BeautyBookingService/internal/infra/storage/rating"
	"github.com/m04kA/SMC-BeautyBookingService/pkg/txmanager"
)

// UseCase сценарий оценки завершённого бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	ratingRepo   RatingRepository
	catalogRepo  CatalogRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	ratingRepo RatingRepository,
	catalogRepo CatalogRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		ratingRepo:   ratingRepo,
		catalogRepo:  catalogRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute сохраняет отзыв и пересчитывает среднюю оценку ресурса в той же транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RateBooking: booking=%s, user=%s, rating=%d", req.BookingID, req.UserID, req.OverallRating)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	var resp *Response
	fn := func(txCtx context.Context) error {
		b, err := uc.bookingRepo.GetByIDForUpdate(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
		}
		if b.UserID != req.UserID {
			return ErrBookingNotFound
		}
		if b.Status != domain.StatusCompleted {
			return fmt.Errorf("%w: booking is %s", ErrBookingNotCompleted, b.Status)
		}

		// Строка ресурса блокируется до пересчета агрегата
		if _, err := uc.catalogRepo.LockResource(txCtx, b.Resource); err != nil {
			return fmt.Errorf("%w: failed to lock resource: %w", ErrInternal, err)
		}

		rating := &domain.Rating{
			ID:              uuid.New(),
			BookingID:       b.ID,
			UserID:          req.UserID,
			OverallRating:   req.OverallRating,
			ServiceQuality:  req.ServiceQuality,
			Punctuality:     req.Punctuality,
			Professionalism: req.Professionalism,
			ReviewText:      req.ReviewText,
			IsAnonymous:     req.IsAnonymous,
			CreatedAt:       now,
		}
		if err := uc.ratingRepo.Create(txCtx, rating); err != nil {
			if errors.Is(err, ratingRepo.ErrAlreadyRated) {
				return ErrAlreadyRated
			}
			return fmt.Errorf("%w: failed to create rating: %w", ErrInternal, err)
		}

		agg, err := uc.ratingRepo.AggregateForResource(txCtx, b.Resource)
		if err != nil {
			return fmt.Errorf("%w: failed to aggregate ratings: %w", ErrInternal, err)
		}
		if err := uc.catalogRepo.UpdateRatingAggregate(txCtx, b.Resource, *agg); err != nil {
			return fmt.Errorf("%w: failed to update rating aggregate: %w", ErrInternal, err)
		}

		resp = &Response{
			RatingID:      rating.ID,
			BookingID:     b.ID,
			OverallRating: rating.OverallRating,
			AverageRating: agg.AverageRating,
			TotalReviews:  agg.TotalReviews,
		}
		return nil
	}

	err := uc.txManager.DoSerializable(ctx, fn)
	if errors.Is(err, txmanager.ErrSerialization) {
		uc.logger.Warn("RateBooking: transaction conflict, retrying once: %v", err)
		err = uc.txManager.DoSerializable(ctx, fn)
		if errors.Is(err, txmanager.ErrSerialization) {
			err = fmt.Errorf("%w: %v", ErrConflict, err)
		}
	}
	if err != nil {
		if errors.Is(err, ErrInternal) || errors.Is(err, ErrConflict) {
			uc.logger.Error("RateBooking: %v", err)
		} else {
			uc.logger.Warn("RateBooking: %v", err)
		}
		return nil, err
	}

	uc.logger.Info("RateBooking: booking %s rated, resource average=%.2f over %d reviews",
		resp.BookingID, resp.AverageRating, resp.TotalReviews)

	return resp, nil
}

func validateRequest(req *Request) error {
	if req.BookingID == uuid.Nil || req.UserID == uuid.Nil {
		return fmt.Errorf("%w: booking_id and user_id are required", ErrInvalidInput)
	}
	if !domain.IsValidScore(req.OverallRating) {
		return fmt.Errorf("%w: overall_rating must be between %d and %d", ErrInvalidRatingValue, domain.MinRating, domain.MaxRating)
	}
	for name, score := range map[string]*int{
		"service_quality": req.ServiceQuality,
		"punctuality":     req.Punctuality,
		"professionalism": req.Professionalism,
	} {
		if score != nil && !domain.IsValidScore(*score) {
			return fmt.Errorf("%w: %s must be between %d and %d", ErrInvalidRatingValue, name, domain.MinRating, domain.MaxRating)
		}
	}
	if req.ReviewText != nil && utf8.RuneCountInString(*req.ReviewText) > domain.MaxReviewLength {
		return fmt.Errorf("%w: review_text must be at most %d characters", ErrInvalidInput, domain.MaxReviewLength)
	}
	return nil
}
