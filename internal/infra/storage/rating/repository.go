package rating

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
	"github.com/m04kA/SMC-BeautyBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-BeautyBookingService/pkg/psqlbuilder"
)

const pgUniqueViolation = "23505"

// Repository репозиторий отзывов о бронированиях
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория отзывов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет отзыв. Уникальный индекс по booking_id гарантирует один отзыв на бронирование.
func (r *Repository) Create(ctx context.Context, rt *domain.Rating) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_ratings").
		Columns(
			"id",
			"booking_id",
			"user_id",
			"overall_rating",
			"service_quality",
			"punctuality",
			"professionalism",
			"review_text",
			"is_anonymous",
			"created_at",
		).
		Values(
			rt.ID,
			rt.BookingID,
			rt.UserID,
			rt.OverallRating,
			rt.ServiceQuality,
			rt.Punctuality,
			rt.Professionalism,
			rt.ReviewText,
			rt.IsAnonymous,
			rt.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return ErrAlreadyRated
		}
		return fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// GetByBookingID получает отзыв по бронированию
func (r *Repository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*domain.Rating, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"booking_id",
		"user_id",
		"overall_rating",
		"service_quality",
		"punctuality",
		"professionalism",
		"review_text",
		"is_anonymous",
		"created_at",
	).
		From("booking_ratings").
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - build select query: %v", ErrBuildQuery, err)
	}

	var (
		rt                                         domain.Rating
		serviceQuality, punctuality, professionals sql.NullInt64
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rt.ID,
		&rt.BookingID,
		&rt.UserID,
		&rt.OverallRating,
		&serviceQuality,
		&punctuality,
		&professionals,
		&rt.ReviewText,
		&rt.IsAnonymous,
		&rt.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRatingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - scan rating: %w", ErrScanRow, err)
	}

	rt.ServiceQuality = nullInt(serviceQuality)
	rt.Punctuality = nullInt(punctuality)
	rt.Professionalism = nullInt(professionals)

	return &rt, nil
}

// AggregateForResource пересчитывает среднюю оценку и количество отзывов ресурса
// по всем отзывам на его бронирования
func (r *Repository) AggregateForResource(ctx context.Context, ref domain.ResourceRef) (*domain.RatingAggregate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"COALESCE(AVG(r.overall_rating)::float8, 0)",
		"COUNT(r.id)",
	).
		From("booking_ratings r").
		Join("bookings b ON b.id = r.booking_id").
		Where(squirrel.Eq{
			"b.resource_kind": ref.Kind,
			"b.resource_id":   ref.ID,
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: AggregateForResource - build select query: %v", ErrBuildQuery, err)
	}

	var agg domain.RatingAggregate
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&agg.AverageRating, &agg.TotalReviews); err != nil {
		return nil, fmt.Errorf("%w: AggregateForResource - scan aggregate: %w", ErrScanRow, err)
	}

	return &agg, nil
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
