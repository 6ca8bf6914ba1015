package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockChannel struct {
	mock.Mock
}

func (m *mockChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	return m.Called(name, kind, durable).Error(0)
}

func (m *mockChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return m.Called(exchange, key, msg).Error(0)
}

func (m *mockChannel) Close() error {
	return m.Called().Error(0)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestRoutingKey(t *testing.T) {
	assert.Equal(t, "booking.cancelled", RoutingKey("CANCELLED"))
	assert.Equal(t, "booking.payment_received", RoutingKey("PAYMENT_RECEIVED"))
}

func TestClient_Publish(t *testing.T) {
	ch := new(mockChannel)
	ch.On("ExchangeDeclare", "booking.events", "topic", true).Return(nil)

	var published amqp.Publishing
	ch.On("PublishWithContext", "booking.events", "booking.confirmed", mock.AnythingOfType("amqp091.Publishing")).
		Run(func(args mock.Arguments) { published = args.Get(2).(amqp.Publishing) }).
		Return(nil)
	ch.On("Close").Return(nil)

	client, err := newClientWithChannel(ch, "booking.events", nopLogger{})
	require.NoError(t, err)

	event := BookingEvent{
		EventID:       uuid.New(),
		Action:        "CONFIRMED",
		BookingID:     uuid.New(),
		BookingNumber: "BK12345678",
		Status:        "CONFIRMED",
	}
	require.NoError(t, client.Publish(context.Background(), event))

	assert.Equal(t, amqp.Persistent, published.DeliveryMode)
	assert.Equal(t, "application/json", published.ContentType)

	var decoded BookingEvent
	require.NoError(t, json.Unmarshal(published.Body, &decoded))
	assert.Equal(t, event.BookingNumber, decoded.BookingNumber)

	require.NoError(t, client.Close())
	assert.ErrorIs(t, client.Publish(context.Background(), event), ErrClosed)
	ch.AssertExpectations(t)
}

func TestClient_PublishError(t *testing.T) {
	ch := new(mockChannel)
	ch.On("ExchangeDeclare", "booking.events", "topic", true).Return(nil)
	ch.On("PublishWithContext", "booking.events", "booking.created", mock.Anything).Return(errors.New("channel closed"))

	client, err := newClientWithChannel(ch, "booking.events", nopLogger{})
	require.NoError(t, err)

	err = client.Publish(context.Background(), BookingEvent{Action: "CREATED"})
	assert.ErrorIs(t, err, ErrPublish)
}

func TestNewClient_DeclareFails(t *testing.T) {
	ch := new(mockChannel)
	ch.On("ExchangeDeclare", "booking.events", "topic", true).Return(errors.New("access refused"))
	ch.On("Close").Return(nil)

	_, err := newClientWithChannel(ch, "booking.events", nopLogger{})
	assert.ErrorIs(t, err, ErrConnect)
}
