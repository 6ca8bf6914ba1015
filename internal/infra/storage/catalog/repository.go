package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
	"github.com/m04kA/SMC-BeautyBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-BeautyBookingService/pkg/psqlbuilder"
)

// resourceTable таблица ресурса и имя колонки доступности
type resourceTable struct {
	name         string
	availability string
}

var resourceTables = map[domain.ResourceKind]resourceTable{
	domain.ResourceArtist:        {name: "artists", availability: "is_available"},
	domain.ResourceServiceOption: {name: "service_options", availability: "available"},
}

// Repository только читает каталог, кроме агрегатов ресурса
// (total_bookings, average_rating, total_reviews), которыми владеет бронирование.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetService возвращает снимок услуги на момент бронирования.
// Для мастера это услуга салона, для опции - услуга вместе с ценой и длительностью опции;
// опция должна принадлежать услуге.
func (r *Repository) GetService(ctx context.Context, kind domain.ResourceKind, serviceID, resourceID uuid.UUID) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var selectBuilder squirrel.SelectBuilder
	switch kind {
	case domain.ResourceArtist:
		selectBuilder = psqlbuilder.Select("id", "name", "duration_minutes", "base_price", "is_active").
			From("beauty_services").
			Where(squirrel.Eq{"id": serviceID})
	case domain.ResourceServiceOption:
		selectBuilder = psqlbuilder.Select("s.id", "s.name", "o.duration_minutes", "o.price", "s.availability").
			From("services s").
			Join("service_options o ON o.service_id = s.id").
			Where(squirrel.Eq{"s.id": serviceID, "o.id": resourceID})
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.Service
	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.Name, &s.DurationMinutes, &s.Price, &s.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan service: %w", ErrScanRow, err)
	}

	return &s, nil
}

// GetResource получает ресурс с агрегатами
func (r *Repository) GetResource(ctx context.Context, ref domain.ResourceRef) (*domain.Resource, error) {
	return r.getResource(ctx, ref, false)
}

// LockResource получает ресурс и блокирует его строку до конца транзакции.
// Блокировка сериализует проверку конфликта и вставку бронирования по ресурсу.
func (r *Repository) LockResource(ctx context.Context, ref domain.ResourceRef) (*domain.Resource, error) {
	return r.getResource(ctx, ref, dbmetrics.IsInTransaction(ctx))
}

func (r *Repository) getResource(ctx context.Context, ref domain.ResourceRef, forUpdate bool) (*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	table, ok := resourceTables[ref.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, ref.Kind)
	}

	selectBuilder := psqlbuilder.Select(
		"name",
		table.availability,
		"total_bookings",
		"average_rating",
		"total_reviews",
	).
		From(table.name).
		Where(squirrel.Eq{"id": ref.ID})
	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetResource - build select query: %v", ErrBuildQuery, err)
	}

	res := domain.Resource{Ref: ref}
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&res.Name,
		&res.IsAvailable,
		&res.TotalBookings,
		&res.AverageRating,
		&res.TotalReviews,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrResourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetResource - scan resource: %w", ErrScanRow, err)
	}

	return &res, nil
}

// IncrementTotalBookings увеличивает счётчик бронирований ресурса
func (r *Repository) IncrementTotalBookings(ctx context.Context, ref domain.ResourceRef) error {
	table, ok := resourceTables[ref.Kind]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedKind, ref.Kind)
	}

	return r.update(ctx, "IncrementTotalBookings",
		psqlbuilder.Update(table.name).
			Set("total_bookings", squirrel.Expr("total_bookings + 1")).
			Where(squirrel.Eq{"id": ref.ID}),
	)
}

// UpdateRatingAggregate записывает пересчитанные среднюю оценку и количество отзывов
func (r *Repository) UpdateRatingAggregate(ctx context.Context, ref domain.ResourceRef, agg domain.RatingAggregate) error {
	table, ok := resourceTables[ref.Kind]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedKind, ref.Kind)
	}

	return r.update(ctx, "UpdateRatingAggregate",
		psqlbuilder.Update(table.name).
			Set("average_rating", agg.AverageRating).
			Set("total_reviews", agg.TotalReviews).
			Where(squirrel.Eq{"id": ref.ID}),
	)
}

func (r *Repository) update(ctx context.Context, op string, builder squirrel.UpdateBuilder) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrResourceNotFound
	}

	return nil
}
