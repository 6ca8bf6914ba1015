package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// channel операции канала AMQP, которые использует клиент
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Client публикует события бронирований в topic exchange RabbitMQ.
// Ключ маршрутизации: booking.<action>, например booking.cancelled.
type Client struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       channel
	exchange string
	closed   bool
	log      Logger
}

// NewClient подключается к RabbitMQ и объявляет durable topic exchange
func NewClient(url, exchange string, log Logger) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("%w: dial: %v", ErrConnect, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: open channel: %v", ErrConnect, err)
	}

	c, err := newClientWithChannel(ch, exchange, log)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	c.conn = conn

	return c, nil
}

func newClientWithChannel(ch channel, exchange string, log Logger) (*Client, error) {
	if err := ch.ExchangeDeclare(
		exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // autoDelete
		false,    // internal
		false,    // noWait
		nil,      // args
	); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("%w: declare exchange %q: %v", ErrConnect, exchange, err)
	}

	return &Client{
		ch:       ch,
		exchange: exchange,
		log:      log,
	}, nil
}

// RoutingKey ключ маршрутизации для действия
func RoutingKey(action string) string {
	return "booking." + strings.ToLower(action)
}

// Publish публикует событие как persistent JSON сообщение
func (c *Client) Publish(ctx context.Context, event BookingEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: marshal event: %v", ErrPublish, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.EventID.String(),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	routingKey := RoutingKey(event.Action)
	if err := c.ch.PublishWithContext(ctx, c.exchange, routingKey, false, false, msg); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPublish, routingKey, err)
	}

	c.log.Info("Notifier: published %s for booking %s", routingKey, event.BookingNumber)
	return nil
}

// Close закрывает канал и соединение
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	if err := c.ch.Close(); err != nil {
		c.log.Warn("Notifier: failed to close channel: %v", err)
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Noop публикатор, который ничего не отправляет. Используется, когда RabbitMQ отключен.
type Noop struct{}

// Publish ничего не делает
func (Noop) Publish(context.Context, BookingEvent) error {
	return nil
}
