package booking_lifecycle

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено или принадлежит другому пользователю
	ErrBookingNotFound = errors.New("booking_lifecycle: booking not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("booking_lifecycle: service not found")

	// ErrResourceNotFound возвращается, когда мастер или опция услуги не найдены
	ErrResourceNotFound = errors.New("booking_lifecycle: resource not found")

	// ErrServiceUnavailable возвращается, когда услуга неактивна
	ErrServiceUnavailable = errors.New("booking_lifecycle: service is not available")

	// ErrResourceUnavailable возвращается, когда ресурс недоступен для записи
	ErrResourceUnavailable = errors.New("booking_lifecycle: resource is not available")

	// ErrLeadTimeViolation возвращается, когда время бронирования ближе минимального срока
	ErrLeadTimeViolation = errors.New("booking_lifecycle: requested time violates minimum lead time")

	// ErrSlotConflict возвращается, когда окно пересекается с активным бронированием ресурса
	ErrSlotConflict = errors.New("booking_lifecycle: time slot is already booked")

	// ErrNotCancellable возвращается, когда бронирование нельзя отменить
	ErrNotCancellable = errors.New("booking_lifecycle: booking cannot be cancelled")

	// ErrNotReschedulable возвращается, когда бронирование нельзя перенести
	ErrNotReschedulable = errors.New("booking_lifecycle: booking cannot be rescheduled")

	// ErrInvalidTransition возвращается при недопустимом переходе статуса
	ErrInvalidTransition = errors.New("booking_lifecycle: invalid status transition")

	// ErrPaymentState возвращается, когда состояние оплаты не допускает операцию
	ErrPaymentState = errors.New("booking_lifecycle: operation not allowed in current payment status")

	// ErrConflict возвращается, когда транзакция проиграла конкурентной и повтор не помог
	ErrConflict = errors.New("booking_lifecycle: concurrent modification, please retry")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("booking_lifecycle: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("booking_lifecycle: internal error")
)
