package booking_lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BeautyBookingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-BeautyBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-BeautyBookingService/internal/usecase/availability"
	"github.com/m04kA/SMC-BeautyBookingService/pkg/types"
)

// Create создает бронирование в статусе PENDING.
// Проверка конфликта и вставка выполняются в одной сериализуемой транзакции
// под блокировкой строки ресурса и активных бронирований дня.
func (uc *UseCase) Create(ctx context.Context, req *CreateRequest) (*domain.Booking, error) {
	uc.logger.Info("CreateBooking: user=%s, resource=%s, service=%s, date=%s, time=%s",
		req.UserID, req.Resource, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateCreateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Минимальный срок записи проверяется до обращения к каталогу
	now := uc.timeProvider.Now()
	start := uc.policy.StartAt(req.Date, req.StartTime)
	if !uc.policy.IsBookable(start, now) {
		uc.logger.Warn("CreateBooking: start %s is within %s from now", start.Format(time.RFC3339), uc.policy.CreateLead)
		return nil, fmt.Errorf("%w: booking must be made at least %d minutes in advance",
			ErrLeadTimeViolation, int(uc.policy.CreateLead.Minutes()))
	}

	var result *domain.Booking
	var entry *domain.HistoryEntry

	err := uc.runTx(ctx, "CreateBooking", func(txCtx context.Context) error {
		// 3. Услуга: снимок цены и длительности
		service, err := uc.catalogRepo.GetService(txCtx, req.Resource.Kind, req.ServiceID, req.Resource.ID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrServiceNotFound) {
				return ErrServiceNotFound
			}
			return fmt.Errorf("%w: failed to get service: %w", ErrInternal, err)
		}
		if !service.IsActive {
			return ErrServiceUnavailable
		}

		// 4. Ресурс: блокируем строку до конца транзакции
		resource, err := uc.catalogRepo.LockResource(txCtx, req.Resource)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrResourceNotFound) {
				return ErrResourceNotFound
			}
			return fmt.Errorf("%w: failed to lock resource: %w", ErrInternal, err)
		}
		if !resource.IsAvailable {
			return ErrResourceUnavailable
		}

		// 5. Конфликт с активными бронированиями ресурса на дату
		if err := uc.checkConflict(txCtx, req.Resource, req.Date, req.StartTime, service.DurationMinutes, nil); err != nil {
			return err
		}

		// 6. Создаем бронирование
		id := uuid.New()
		booking := &domain.Booking{
			ID:              id,
			BookingNumber:   domain.BookingNumberFromID(id),
			UserID:          req.UserID,
			Resource:        req.Resource,
			ServiceID:       service.ID,
			ScheduledDate:   req.Date,
			ScheduledTime:   req.StartTime,
			DurationMinutes: service.DurationMinutes,
			ServiceName:     service.Name,
			ServicePrice:    service.Price,
			TotalAmount:     domain.CalculateTotal(service.Price, 0, 0),
			Status:          domain.StatusPending,
			PaymentStatus:   domain.PaymentPending,
			ServiceAddress:  req.ServiceAddress,
			Latitude:        req.Latitude,
			Longitude:       req.Longitude,
			CustomerNotes:   req.CustomerNotes,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		if err := uc.bookingRepo.Create(txCtx, booking); err != nil {
			if errors.Is(err, bookingRepo.ErrDuplicateBooking) {
				return fmt.Errorf("%w: booking number %s already taken", errRetry, booking.BookingNumber)
			}
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		if err := uc.catalogRepo.IncrementTotalBookings(txCtx, req.Resource); err != nil {
			return fmt.Errorf("%w: failed to increment total bookings: %w", ErrInternal, err)
		}

		// 7. Запись истории CREATED
		performer := req.UserID
		entry, err = uc.appendHistory(txCtx, booking.ID, domain.ActionCreated,
			fmt.Sprintf("Booking created for %s at %s", booking.ScheduledDate.Format(domain.DateFormat), booking.ScheduledTime),
			&performer, now)
		if err != nil {
			return err
		}

		result = booking
		return nil
	})
	if err != nil {
		return nil, uc.fail("CreateBooking", err)
	}

	uc.logger.Info("CreateBooking: created booking %s (id=%s)", result.BookingNumber, result.ID)
	uc.afterCommit(ctx, "CreateBooking", &change{booking: result, entry: entry, dates: []time.Time{result.ScheduledDate}})

	return result, nil
}

// checkConflict проверяет окно и переводит ошибки проверки в ошибки use case
func (uc *UseCase) checkConflict(
	ctx context.Context,
	ref domain.ResourceRef,
	date time.Time,
	start types.TimeString,
	duration int,
	excludeID *uuid.UUID,
) error {
	err := uc.checker.CheckConflict(ctx, ref, date, start, duration, excludeID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, availability.ErrSlotConflict):
		uc.metrics.ObserveSlotConflict(string(ref.Kind))
		return fmt.Errorf("%w: %v", ErrSlotConflict, err)
	case errors.Is(err, availability.ErrInvalidWindow):
		return fmt.Errorf("%w: booking must start and end on the same day", ErrInvalidInput)
	default:
		return fmt.Errorf("%w: conflict check failed: %w", ErrInternal, err)
	}
}

// fail логирует ошибку операции и возвращает её вызывающему.
// Ошибки вне таксономии use case превращаются в ErrInternal.
func (uc *UseCase) fail(op string, err error) error {
	if !isBusinessError(err) {
		uc.logger.Error("%s: %v", op, err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if errors.Is(err, ErrInternal) || errors.Is(err, ErrConflict) {
		uc.logger.Error("%s: %v", op, err)
	} else {
		uc.logger.Warn("%s: %v", op, err)
	}
	return err
}

func isBusinessError(err error) bool {
	for _, target := range []error{
		ErrBookingNotFound,
		ErrServiceNotFound,
		ErrResourceNotFound,
		ErrServiceUnavailable,
		ErrResourceUnavailable,
		ErrLeadTimeViolation,
		ErrSlotConflict,
		ErrNotCancellable,
		ErrNotReschedulable,
		ErrInvalidTransition,
		ErrPaymentState,
		ErrConflict,
		ErrInvalidInput,
		ErrInternal,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
