package availability

import "errors"

var (
	// ErrSlotConflict возвращается, когда окно пересекается с активным бронированием ресурса
	ErrSlotConflict = errors.New("availability: time slot conflicts with an existing booking")

	// ErrInvalidWindow возвращается, когда окно бронирования некорректно (например, переходит через полночь)
	ErrInvalidWindow = errors.New("availability: invalid booking window")

	// ErrResourceNotFound возвращается, когда мастер или опция услуги не найдены
	ErrResourceNotFound = errors.New("availability: resource not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("availability: service not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("availability: internal error")
)
