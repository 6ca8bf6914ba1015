package rate_booking

import "errors"

var (
	// ErrBookingNotFound бронирование не найдено или принадлежит другому пользователю
	ErrBookingNotFound = errors.New("rate_booking: booking not found")

	// ErrBookingNotCompleted оценить можно только завершённое бронирование
	ErrBookingNotCompleted = errors.New("rate_booking: booking is not completed")

	// ErrAlreadyRated на бронирование уже оставлен отзыв
	ErrAlreadyRated = errors.New("rate_booking: booking already rated")

	// ErrInvalidRatingValue оценка вне шкалы 1-5
	ErrInvalidRatingValue = errors.New("rate_booking: invalid rating value")

	// ErrInvalidInput некорректные входные данные
	ErrInvalidInput = errors.New("rate_booking: invalid input")

	// ErrConflict конкурентное изменение, повтор не помог
	ErrConflict = errors.New("rate_booking: concurrent modification")

	// ErrInternal внутренняя ошибка
	ErrInternal = errors.New("rate_booking: internal error")
)
