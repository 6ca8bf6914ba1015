package notifier

import "errors"

var (
	// ErrConnect возвращается, если не удалось подключиться к RabbitMQ
	ErrConnect = errors.New("notifier client: failed to connect")

	// ErrPublish возвращается при ошибке публикации события
	ErrPublish = errors.New("notifier client: failed to publish")

	// ErrClosed возвращается при публикации после Close
	ErrClosed = errors.New("notifier client: closed")
)
