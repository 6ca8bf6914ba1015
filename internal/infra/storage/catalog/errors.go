package catalog

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("catalog.repository: service not found")

	// ErrResourceNotFound возвращается, когда мастер или опция услуги не найдены
	ErrResourceNotFound = errors.New("catalog.repository: resource not found")

	// ErrUnsupportedKind возвращается для неизвестного типа ресурса
	ErrUnsupportedKind = errors.New("catalog.repository: unsupported resource kind")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("catalog.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("catalog.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("catalog.repository: failed to scan row")
)
