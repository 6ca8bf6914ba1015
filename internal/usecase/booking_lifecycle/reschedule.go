package booking_lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-BeautyBookingService/internal/infra/storage/catalog"
)

// Reschedule переносит бронирование на новые дату и время.
// Бронирование проходит RESCHEDULED и возвращается в CONFIRMED в одной транзакции;
// в историю пишется одна запись RESCHEDULED со старым и новым временем.
func (uc *UseCase) Reschedule(ctx context.Context, req *RescheduleRequest) (*domain.Booking, error) {
	uc.logger.Info("RescheduleBooking: booking=%s, actor=%s, new_date=%s, new_time=%s",
		req.BookingID, req.Actor.UserID, req.NewDate.Format(domain.DateFormat), req.NewTime)

	if err := validateRescheduleRequest(req); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	var (
		result  *domain.Booking
		entry   *domain.HistoryEntry
		oldDate time.Time
	)

	err := uc.runTx(ctx, "RescheduleBooking", func(txCtx context.Context) error {
		b, err := uc.loadForUpdate(txCtx, req.BookingID, req.Actor)
		if err != nil {
			return err
		}

		// 1. Исходное время должно быть не ближе RescheduleLead
		if !uc.policy.CanReschedule(b, now) {
			if !domain.CanTransition(b.Status, domain.StatusRescheduled) {
				return fmt.Errorf("%w: booking is %s", ErrNotReschedulable, b.Status)
			}
			return fmt.Errorf("%w: less than %d minutes before the appointment",
				ErrNotReschedulable, int(uc.policy.RescheduleLead.Minutes()))
		}

		// 2. Новое время тоже должно быть не ближе RescheduleLead
		newStart := uc.policy.StartAt(req.NewDate, req.NewTime)
		if !uc.policy.IsReschedulableTo(newStart, now) {
			return fmt.Errorf("%w: new time must be at least %d minutes in advance",
				ErrLeadTimeViolation, int(uc.policy.RescheduleLead.Minutes()))
		}

		// 3. Блокируем ресурс и проверяем конфликт, исключая само бронирование
		if _, err := uc.catalogRepo.LockResource(txCtx, b.Resource); err != nil {
			if errors.Is(err, catalogRepo.ErrResourceNotFound) {
				return ErrResourceNotFound
			}
			return fmt.Errorf("%w: failed to lock resource: %w", ErrInternal, err)
		}
		if err := uc.checkConflict(txCtx, b.Resource, req.NewDate, req.NewTime, b.DurationMinutes, &b.ID); err != nil {
			return err
		}

		// 4. RESCHEDULED -> CONFIRMED с новым временем
		oldDate = b.ScheduledDate
		description := fmt.Sprintf("Rescheduled from %s %s to %s %s",
			b.ScheduledDate.Format(domain.DateFormat), b.ScheduledTime,
			req.NewDate.Format(domain.DateFormat), req.NewTime)
		if req.Reason != nil && *req.Reason != "" {
			description += ". Reason: " + *req.Reason
		}

		if err := b.Transition(domain.StatusRescheduled, now); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
		}
		b.ScheduledDate = req.NewDate
		b.ScheduledTime = req.NewTime
		if err := b.Transition(domain.StatusConfirmed, now); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
		}

		performer := req.Actor.UserID
		entry, err = uc.record(txCtx, b, domain.ActionRescheduled, description, &performer, now)
		if err != nil {
			return err
		}

		result = b
		return nil
	})
	if err != nil {
		return nil, uc.fail("RescheduleBooking", err)
	}

	uc.logger.Info("RescheduleBooking: booking %s moved to %s %s",
		result.BookingNumber, result.ScheduledDate.Format(domain.DateFormat), result.ScheduledTime)
	uc.afterCommit(ctx, "RescheduleBooking", &change{
		booking: result,
		entry:   entry,
		dates:   []time.Time{oldDate, result.ScheduledDate},
	})

	return result, nil
}
