package booking_lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
)

// Cancel отменяет активное бронирование.
// Пользователь может отменить свое бронирование не позже чем за CancelLead до начала,
// оператор - любое активное бронирование без ограничения по времени.
func (uc *UseCase) Cancel(ctx context.Context, req *CancelRequest) (*domain.Booking, error) {
	uc.logger.Info("CancelBooking: booking=%s, actor=%s, operator=%t", req.BookingID, req.Actor.UserID, req.Actor.IsOperator)

	if err := validateReason(req.Reason); err != nil {
		uc.logger.Warn("CancelBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	var result *domain.Booking
	var entry *domain.HistoryEntry

	err := uc.runTx(ctx, "CancelBooking", func(txCtx context.Context) error {
		b, err := uc.loadForUpdate(txCtx, req.BookingID, req.Actor)
		if err != nil {
			return err
		}

		if !domain.CanTransition(b.Status, domain.StatusCancelled) {
			return fmt.Errorf("%w: booking is %s", ErrNotCancellable, b.Status)
		}
		if !req.Actor.IsOperator && !uc.policy.CanCancel(b, now) {
			return fmt.Errorf("%w: less than %d minutes before the appointment",
				ErrNotCancellable, int(uc.policy.CancelLead.Minutes()))
		}

		reason := req.Reason
		b.CancellationReason = &reason
		b.RefundRequested = req.RefundRequested

		performer := req.Actor.UserID
		entry, err = uc.transition(txCtx, b, domain.StatusCancelled, &performer,
			fmt.Sprintf("Booking cancelled. Reason: %s", reason), now)
		if err != nil {
			return err
		}

		result = b
		return nil
	})
	if err != nil {
		return nil, uc.fail("CancelBooking", err)
	}

	uc.logger.Info("CancelBooking: booking %s cancelled", result.BookingNumber)
	uc.afterCommit(ctx, "CancelBooking", &change{booking: result, entry: entry, dates: []time.Time{result.ScheduledDate}})

	return result, nil
}
