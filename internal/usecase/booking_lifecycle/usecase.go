package booking_lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BeautyBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-BeautyBookingService/internal/integrations/notifier"
	"github.com/m04kA/SMC-BeautyBookingService/pkg/txmanager"
)

const notifyTimeout = 3 * time.Second

// errRetry помечает ошибку транзакции, после которой операцию можно повторить
var errRetry = errors.New("booking_lifecycle: retryable")

// UseCase менеджер жизненного цикла бронирования.
// Все изменения статуса проходят через transition и пишутся вместе с записью истории в одной транзакции.
type UseCase struct {
	bookingRepo  BookingRepository
	historyRepo  HistoryRepository
	catalogRepo  CatalogRepository
	checker      ConflictChecker
	txManager    TransactionManager
	cache        SlotCache
	notifier     Notifier
	metrics      Metrics
	policy       domain.Policy
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	historyRepo HistoryRepository,
	catalogRepo CatalogRepository,
	checker ConflictChecker,
	txManager TransactionManager,
	cache SlotCache,
	notifier Notifier,
	metrics Metrics,
	policy domain.Policy,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		historyRepo:  historyRepo,
		catalogRepo:  catalogRepo,
		checker:      checker,
		txManager:    txManager,
		cache:        cache,
		notifier:     notifier,
		metrics:      metrics,
		policy:       policy,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// change результат изменения бронирования, который публикуется после коммита
type change struct {
	booking *domain.Booking
	entry   *domain.HistoryEntry
	dates   []time.Time // даты, кэш слотов которых нужно сбросить
}

// runTx выполняет fn в сериализуемой транзакции.
// Конфликт сериализации или совпадение номера бронирования повторяются один раз.
func (uc *UseCase) runTx(ctx context.Context, op string, fn func(txCtx context.Context) error) error {
	err := uc.txManager.DoSerializable(ctx, fn)
	if !isRetryable(err) {
		return err
	}

	uc.metrics.ObserveTxRetry()
	uc.logger.Warn("%s: transaction conflict, retrying once: %v", op, err)

	err = uc.txManager.DoSerializable(ctx, fn)
	if isRetryable(err) {
		uc.logger.Warn("%s: transaction conflict after retry: %v", op, err)
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

func isRetryable(err error) bool {
	return errors.Is(err, txmanager.ErrSerialization) || errors.Is(err, errRetry)
}

// transition переводит бронирование в статус to и пишет запись истории для этого статуса
func (uc *UseCase) transition(
	ctx context.Context,
	b *domain.Booking,
	to domain.BookingStatus,
	actor *uuid.UUID,
	description string,
	now time.Time,
) (*domain.HistoryEntry, error) {
	if err := b.Transition(to, now); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}

	action, ok := domain.ActionForStatus(to)
	if !ok {
		return nil, fmt.Errorf("%w: no history action for status %s", ErrInternal, to)
	}

	return uc.record(ctx, b, action, description, actor, now)
}

// record сохраняет бронирование и добавляет запись в историю
func (uc *UseCase) record(
	ctx context.Context,
	b *domain.Booking,
	action domain.HistoryAction,
	description string,
	actor *uuid.UUID,
	now time.Time,
) (*domain.HistoryEntry, error) {
	b.UpdatedAt = now
	if err := uc.bookingRepo.Update(ctx, b); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: failed to update booking: %w", ErrInternal, err)
	}

	entry, err := uc.appendHistory(ctx, b.ID, action, description, actor, now)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (uc *UseCase) appendHistory(
	ctx context.Context,
	bookingID uuid.UUID,
	action domain.HistoryAction,
	description string,
	actor *uuid.UUID,
	now time.Time,
) (*domain.HistoryEntry, error) {
	entry := &domain.HistoryEntry{
		ID:          uuid.New(),
		BookingID:   bookingID,
		Action:      action,
		Description: description,
		PerformedBy: actor,
		CreatedAt:   now,
	}
	if err := uc.historyRepo.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("%w: failed to append history: %w", ErrInternal, err)
	}
	return entry, nil
}

// loadForUpdate блокирует бронирование. Пользователь видит только свои бронирования.
func (uc *UseCase) loadForUpdate(ctx context.Context, id uuid.UUID, actor Actor) (*domain.Booking, error) {
	b, err := uc.bookingRepo.GetByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
	}
	if !actor.IsOperator && b.UserID != actor.UserID {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

// afterCommit сбрасывает кэш слотов и публикует событие. Ошибки только логируются.
func (uc *UseCase) afterCommit(ctx context.Context, op string, c *change) {
	uc.metrics.ObserveTransition(string(c.entry.Action))

	for _, date := range c.dates {
		if err := uc.cache.Invalidate(ctx, c.booking.Resource, date); err != nil {
			uc.logger.Warn("%s: failed to invalidate slots cache for %s on %s: %v",
				op, c.booking.Resource, date.Format(domain.DateFormat), err)
		}
	}

	event := notifier.BookingEvent{
		EventID:       c.entry.ID,
		Action:        string(c.entry.Action),
		BookingID:     c.booking.ID,
		BookingNumber: c.booking.BookingNumber,
		UserID:        c.booking.UserID,
		ResourceKind:  string(c.booking.Resource.Kind),
		ResourceID:    c.booking.Resource.ID,
		Status:        string(c.booking.Status),
		ScheduledDate: c.booking.ScheduledDate.Format(domain.DateFormat),
		ScheduledTime: c.booking.ScheduledTime.String(),
		Description:   c.entry.Description,
		PerformedBy:   c.entry.PerformedBy,
		OccurredAt:    c.entry.CreatedAt,
	}

	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if err := uc.notifier.Publish(notifyCtx, event); err != nil {
		uc.metrics.ObserveNotifyFailure()
		uc.logger.Warn("%s: failed to publish %s for booking %s: %v", op, event.Action, c.booking.BookingNumber, err)
	}
}
