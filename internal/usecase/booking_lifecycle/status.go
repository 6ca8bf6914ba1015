package booking_lifecycle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
	"github.com/m04kA/SMC-BeautyBookingService/pkg/ptr"
)

// operatorCancelReason причина по умолчанию, если оператор отменяет без комментария
const operatorCancelReason = "Cancelled by operator"

// ChangeStatus смена статуса оператором: CONFIRMED, IN_PROGRESS, COMPLETED или CANCELLED
func (uc *UseCase) ChangeStatus(ctx context.Context, req *StatusRequest) (*domain.Booking, error) {
	switch req.Status {
	case domain.StatusConfirmed:
		return uc.Confirm(ctx, req)
	case domain.StatusInProgress:
		return uc.Start(ctx, req)
	case domain.StatusCompleted:
		return uc.Complete(ctx, req)
	case domain.StatusCancelled:
		reason := strings.TrimSpace(ptr.Value(req.Reason))
		if reason == "" {
			reason = operatorCancelReason
		}
		return uc.Cancel(ctx, &CancelRequest{
			BookingID: req.BookingID,
			Actor:     Actor{UserID: req.Actor.UserID, IsOperator: true},
			Reason:    reason,
		})
	default:
		return nil, fmt.Errorf("%w: status %q cannot be set directly", ErrInvalidInput, req.Status)
	}
}

// Confirm подтверждает бронирование (PENDING -> CONFIRMED)
func (uc *UseCase) Confirm(ctx context.Context, req *StatusRequest) (*domain.Booking, error) {
	return uc.changeStatus(ctx, "ConfirmBooking", req, domain.StatusConfirmed, "Booking confirmed")
}

// Start отмечает начало оказания услуги (CONFIRMED -> IN_PROGRESS)
func (uc *UseCase) Start(ctx context.Context, req *StatusRequest) (*domain.Booking, error) {
	return uc.changeStatus(ctx, "StartBooking", req, domain.StatusInProgress, "Service started")
}

// Complete завершает бронирование (CONFIRMED или IN_PROGRESS -> COMPLETED)
func (uc *UseCase) Complete(ctx context.Context, req *StatusRequest) (*domain.Booking, error) {
	return uc.changeStatus(ctx, "CompleteBooking", req, domain.StatusCompleted, "Service completed")
}

func (uc *UseCase) changeStatus(
	ctx context.Context,
	op string,
	req *StatusRequest,
	to domain.BookingStatus,
	description string,
) (*domain.Booking, error) {
	uc.logger.Info("%s: booking=%s, actor=%s", op, req.BookingID, req.Actor.UserID)

	now := uc.timeProvider.Now()

	var result *domain.Booking
	var entry *domain.HistoryEntry

	err := uc.runTx(ctx, op, func(txCtx context.Context) error {
		b, err := uc.loadForUpdate(txCtx, req.BookingID, req.Actor)
		if err != nil {
			return err
		}

		if req.ArtistNotes != nil {
			notes := *req.ArtistNotes
			b.ArtistNotes = &notes
		}

		performer := req.Actor.UserID
		entry, err = uc.transition(txCtx, b, to, &performer, description, now)
		if err != nil {
			return err
		}

		result = b
		return nil
	})
	if err != nil {
		return nil, uc.fail(op, err)
	}

	uc.logger.Info("%s: booking %s is %s", op, result.BookingNumber, result.Status)

	uc.afterCommit(ctx, op, &change{booking: result, entry: entry, dates: []time.Time{result.ScheduledDate}})

	return result, nil
}
