package schedule

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

var columns = []string{
	"id",
	"resource_kind",
	"resource_id",
	"open_hour",
	"close_hour",
	"slot_step_minutes",
	"created_at",
	"updated_at",
}

// Repository репозиторий расписаний работы ресурсов
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает расписание
func (r *Repository) Create(ctx context.Context, cfg *domain.ScheduleConfig) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("resource_schedules").
		Columns(columns...).
		Values(
			cfg.ID,
			cfg.Kind,
			cfg.ResourceID,
			cfg.OpenHour,
			cfg.CloseHour,
			cfg.SlotStepMinutes,
			cfg.CreatedAt,
			cfg.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return ErrDuplicateSchedule
		}
		return fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// GetByKey получает расписание для вида ресурса и конкретного ресурса.
// resourceID == nil ищет расписание, общее для всех ресурсов вида.
func (r *Repository) GetByKey(ctx context.Context, kind domain.ResourceKind, resourceID *uuid.UUID) (*domain.ScheduleConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("resource_schedules").
		Where(squirrel.Eq{"resource_kind": kind})

	// Фильтрация по resource_id (NULL или конкретное значение)
	if resourceID == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"resource_id": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"resource_id": *resourceID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByKey - build select query: %v", ErrBuildQuery, err)
	}

	var (
		cfg   domain.ScheduleConfig
		resID uuid.NullUUID
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&cfg.ID,
		&cfg.Kind,
		&resID,
		&cfg.OpenHour,
		&cfg.CloseHour,
		&cfg.SlotStepMinutes,
		&cfg.CreatedAt,
		&cfg.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByKey - scan schedule: %w", ErrScanRow, err)
	}

	if resID.Valid {
		id := resID.UUID
		cfg.ResourceID = &id
	}

	return &cfg, nil
}

// GetWithHierarchy получает расписание с учетом иерархии приоритетов:
// 1. Расписание конкретного ресурса
// 2. Общее расписание вида ресурса
//
// Если расписание не найдено ни на одном уровне, возвращает ErrScheduleNotFound
func (r *Repository) GetWithHierarchy(ctx context.Context, ref domain.ResourceRef) (*domain.ScheduleConfig, error) {
	cfg, err := r.GetByKey(ctx, ref.Kind, &ref.ID)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, ErrScheduleNotFound) {
		return nil, fmt.Errorf("%w: GetWithHierarchy - level 1 (resource): %w", ErrExecQuery, err)
	}

	cfg, err = r.GetByKey(ctx, ref.Kind, nil)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, ErrScheduleNotFound) {
		return nil, fmt.Errorf("%w: GetWithHierarchy - level 2 (kind): %w", ErrExecQuery, err)
	}

	return nil, ErrScheduleNotFound
}

// Update обновляет параметры расписания
func (r *Repository) Update(ctx context.Context, cfg *domain.ScheduleConfig) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("resource_schedules").
		Set("open_hour", cfg.OpenHour).
		Set("close_hour", cfg.CloseHour).
		Set("slot_step_minutes", cfg.SlotStepMinutes).
		Set("updated_at", cfg.UpdatedAt).
		Where(squirrel.Eq{"id": cfg.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrScheduleNotFound
	}

	return nil
}

// DeleteByKey удаляет расписание вида ресурса или конкретного ресурса
func (r *Repository) DeleteByKey(ctx context.Context, kind domain.ResourceKind, resourceID *uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteBuilder := psqlbuilder.Delete("resource_schedules").
		Where(squirrel.Eq{"resource_kind": kind})
	if resourceID == nil {
		deleteBuilder = deleteBuilder.Where(squirrel.Eq{"resource_id": nil})
	} else {
		deleteBuilder = deleteBuilder.Where(squirrel.Eq{"resource_id": *resourceID})
	}

	query, args, err := deleteBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteByKey - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteByKey - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteByKey - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrScheduleNotFound
	}

	return nil
}
