package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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
	"booking_number",
	"user_id",
	"resource_kind",
	"resource_id",
	"service_id",
	"service_name",
	"scheduled_date",
	"scheduled_time",
	"duration_minutes",
	"service_price",
	"additional_charges",
	"discount",
	"total_amount",
	"status",
	"payment_status",
	"payment_method",
	"transaction_id",
	"service_address",
	"latitude",
	"longitude",
	"customer_notes",
	"artist_notes",
	"cancellation_reason",
	"refund_requested",
	"confirmed_at",
	"cancelled_at",
	"completed_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новое бронирование. Id и номер генерирует вызывающий код.
// Совпадение id или booking_number возвращает ErrDuplicateBooking.
func (r *Repository) Create(ctx context.Context, b *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(columns...).
		Values(
			b.ID,
			b.BookingNumber,
			b.UserID,
			b.Resource.Kind,
			b.Resource.ID,
			b.ServiceID,
			b.ServiceName,
			b.ScheduledDate,
			b.ScheduledTime,
			b.DurationMinutes,
			b.ServicePrice,
			b.AdditionalCharges,
			b.Discount,
			b.TotalAmount,
			b.Status,
			b.PaymentStatus,
			b.PaymentMethod,
			b.TransactionID,
			b.ServiceAddress,
			b.Latitude,
			b.Longitude,
			b.CustomerNotes,
			b.ArtistNotes,
			b.CancellationReason,
			b.RefundRequested,
			b.ConfirmedAt,
			b.CancelledAt,
			b.CompletedAt,
			b.CreatedAt,
			b.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: Create - %v", ErrDuplicateBooking, err)
		}
		return fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate получает бронирование и блокирует строку до конца транзакции.
// Вне транзакции работает как GetByID.
func (r *Repository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	return r.getByID(ctx, id, dbmetrics.IsInTransaction(ctx))
}

func (r *Repository) getByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})
	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	b, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return b, nil
}

// GetByUserID получает список бронирований пользователя
// Опционально фильтрует по статусу
func (r *Repository) GetByUserID(ctx context.Context, userID uuid.UUID, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("bookings").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("scheduled_date DESC", "scheduled_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetActiveByResourceAndDate получает активные бронирования ресурса на дату.
// Внутри транзакции строки блокируются (FOR UPDATE), чтобы проверка конфликта
// и вставка были сериализованы по паре (ресурс, дата).
func (r *Repository) GetActiveByResourceAndDate(ctx context.Context, ref domain.ResourceRef, date time.Time) ([]*domain.Booking, error) {
	return r.GetByResourceWithFilter(ctx, domain.ResourceBookingsFilter{
		Resource:  ref,
		StartDate: &date,
		EndDate:   &date,
	})
}

// GetByResourceWithFilter получает бронирования ресурса с фильтрацией
// Поддерживает фильтрацию по:
// - Периоду (StartDate, EndDate) - опционально
// - Статусу (Status) - опционально
// - Включению неактивных бронирований (IncludeInactive)
func (r *Repository) GetByResourceWithFilter(ctx context.Context, filter domain.ResourceBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("bookings").
		Where(squirrel.Eq{
			"resource_kind": filter.Resource.Kind,
			"resource_id":   filter.Resource.ID,
		})

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"scheduled_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"scheduled_date": *filter.EndDate})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statusStrings(domain.ActiveStatuses)})
	}

	if filter.IsSingleDate() {
		selectBuilder = selectBuilder.OrderBy("scheduled_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("scheduled_date DESC", "scheduled_time DESC")
	}

	// Для конкретной даты в транзакции блокируем найденные строки
	if dbmetrics.IsInTransaction(ctx) && filter.IsSingleDate() {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByResourceWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByResourceWithFilter - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// Update сохраняет изменяемые поля бронирования: расписание, статус, оплату и временные метки.
// Номер, владелец, ресурс и цены после создания не меняются.
func (r *Repository) Update(ctx context.Context, b *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("scheduled_date", b.ScheduledDate).
		Set("scheduled_time", b.ScheduledTime).
		Set("status", b.Status).
		Set("payment_status", b.PaymentStatus).
		Set("payment_method", b.PaymentMethod).
		Set("transaction_id", b.TransactionID).
		Set("artist_notes", b.ArtistNotes).
		Set("cancellation_reason", b.CancellationReason).
		Set("refund_requested", b.RefundRequested).
		Set("confirmed_at", b.ConfirmedAt).
		Set("cancelled_at", b.CancelledAt).
		Set("completed_at", b.CompletedAt).
		Set("updated_at", b.UpdatedAt).
		Where(squirrel.Eq{"id": b.ID}).
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
		return ErrBookingNotFound
	}

	return nil
}

// GetStatsByUser считает бронирования пользователя по статусам
// и сумму по завершённым бронированиям
func (r *Repository) GetStatsByUser(ctx context.Context, userID uuid.UUID) (*domain.BookingStats, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"status",
		"COUNT(*)",
		"COALESCE(SUM(total_amount), 0)",
	).
		From("bookings").
		Where(squirrel.Eq{"user_id": userID}).
		GroupBy("status").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetStatsByUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetStatsByUser - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	stats := &domain.BookingStats{ByStatus: make(map[domain.BookingStatus]int)}
	for rows.Next() {
		var (
			status domain.BookingStatus
			count  int
			sum    int64
		)
		if err := rows.Scan(&status, &count, &sum); err != nil {
			return nil, fmt.Errorf("%w: GetStatsByUser - scan row: %v", ErrScanRow, err)
		}
		stats.ByStatus[status] = count
		stats.Total += count
		if status == domain.StatusCompleted {
			stats.TotalSpent = sum
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetStatsByUser - rows error: %v", ErrScanRow, err)
	}

	return stats, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		b                                     domain.Booking
		confirmedAt, cancelledAt, completedAt sql.NullTime
		latitude, longitude                   sql.NullFloat64
	)

	err := row.Scan(
		&b.ID,
		&b.BookingNumber,
		&b.UserID,
		&b.Resource.Kind,
		&b.Resource.ID,
		&b.ServiceID,
		&b.ServiceName,
		&b.ScheduledDate,
		&b.ScheduledTime,
		&b.DurationMinutes,
		&b.ServicePrice,
		&b.AdditionalCharges,
		&b.Discount,
		&b.TotalAmount,
		&b.Status,
		&b.PaymentStatus,
		&b.PaymentMethod,
		&b.TransactionID,
		&b.ServiceAddress,
		&latitude,
		&longitude,
		&b.CustomerNotes,
		&b.ArtistNotes,
		&b.CancellationReason,
		&b.RefundRequested,
		&confirmedAt,
		&cancelledAt,
		&completedAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.Latitude = nullFloat(latitude)
	b.Longitude = nullFloat(longitude)
	b.ConfirmedAt = nullTime(confirmedAt)
	b.CancelledAt = nullTime(cancelledAt)
	b.CompletedAt = nullTime(completedAt)

	return &b, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}

func statusStrings(statuses []domain.BookingStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = string(s)
	}
	return result
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func nullFloat(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation
}
