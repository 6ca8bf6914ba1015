package booking_lifecycle

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
)

// RecordPayment фиксирует оплату бронирования (PENDING -> PAID)
func (uc *UseCase) RecordPayment(ctx context.Context, req *PaymentRequest) (*domain.Booking, error) {
	uc.logger.Info("RecordPayment: booking=%s, method=%s", req.BookingID, req.PaymentMethod)

	if strings.TrimSpace(req.PaymentMethod) == "" {
		return nil, fmt.Errorf("%w: payment_method is required", ErrInvalidInput)
	}

	return uc.changePayment(ctx, "RecordPayment", req.BookingID, req.Actor, func(b *domain.Booking) (domain.HistoryAction, string, error) {
		if b.Status == domain.StatusCancelled {
			return "", "", fmt.Errorf("%w: booking is cancelled", ErrPaymentState)
		}
		if b.PaymentStatus != domain.PaymentPending {
			return "", "", fmt.Errorf("%w: payment is already %s", ErrPaymentState, b.PaymentStatus)
		}

		method := req.PaymentMethod
		b.PaymentMethod = &method
		b.TransactionID = req.TransactionID
		b.PaymentStatus = domain.PaymentPaid

		return domain.ActionPaymentReceived, fmt.Sprintf("Payment of %d received via %s", b.TotalAmount, method), nil
	})
}

// ProcessRefund возвращает оплату отмененного бронирования, по которому запрошен возврат (PAID -> REFUNDED)
func (uc *UseCase) ProcessRefund(ctx context.Context, req *RefundRequest) (*domain.Booking, error) {
	uc.logger.Info("ProcessRefund: booking=%s", req.BookingID)

	return uc.changePayment(ctx, "ProcessRefund", req.BookingID, req.Actor, func(b *domain.Booking) (domain.HistoryAction, string, error) {
		if b.Status != domain.StatusCancelled || !b.RefundRequested {
			return "", "", fmt.Errorf("%w: refund requires a cancelled booking with refund requested", ErrPaymentState)
		}
		if b.PaymentStatus != domain.PaymentPaid {
			return "", "", fmt.Errorf("%w: payment is %s", ErrPaymentState, b.PaymentStatus)
		}

		b.PaymentStatus = domain.PaymentRefunded

		return domain.ActionRefundProcessed, fmt.Sprintf("Refund of %d processed", b.TotalAmount), nil
	})
}

func (uc *UseCase) changePayment(
	ctx context.Context,
	op string,
	bookingID uuid.UUID,
	actor Actor,
	apply func(b *domain.Booking) (domain.HistoryAction, string, error),
) (*domain.Booking, error) {
	now := uc.timeProvider.Now()

	var result *domain.Booking
	var entry *domain.HistoryEntry

	err := uc.runTx(ctx, op, func(txCtx context.Context) error {
		b, err := uc.loadForUpdate(txCtx, bookingID, actor)
		if err != nil {
			return err
		}

		action, description, err := apply(b)
		if err != nil {
			return err
		}

		performer := actor.UserID
		entry, err = uc.record(txCtx, b, action, description, &performer, now)
		if err != nil {
			return err
		}

		result = b
		return nil
	})
	if err != nil {
		return nil, uc.fail(op, err)
	}

	uc.logger.Info("%s: booking %s payment is %s", op, result.BookingNumber, result.PaymentStatus)
	uc.afterCommit(ctx, op, &change{booking: result, entry: entry})

	return result, nil
}
