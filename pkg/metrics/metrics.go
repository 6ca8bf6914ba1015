package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор prometheus-метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration  *prometheus.HistogramVec
	DBQueryErrors    *prometheus.CounterVec
	DBOpenConns      prometheus.Gauge
	DBInUseConns     prometheus.Gauge
	DBIdleConns      prometheus.Gauge
	DBWaitCountTotal prometheus.Gauge

	BookingTransitions *prometheus.CounterVec
	SlotConflicts      *prometheus.CounterVec
	TxRetries          prometheus.Counter
	NotifyFailures     prometheus.Counter
}

// New регистрирует метрики в глобальном реестре prometheus
func New(serviceName string) *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegisterer регистрирует метрики в переданном реестре
func NewWithRegisterer(reg prometheus.Registerer, serviceName string) *Metrics {
	factory := promauto.With(reg)
	labels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests.",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency.",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency.",
			ConstLabels: labels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
		DBQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Database query errors.",
			ConstLabels: labels,
		}, []string{"operation"}),
		DBOpenConns: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Open connections in the pool.",
			ConstLabels: labels,
		}),
		DBInUseConns: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Connections currently in use.",
			ConstLabels: labels,
		}),
		DBIdleConns: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Idle connections in the pool.",
			ConstLabels: labels,
		}),
		DBWaitCountTotal: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_wait_count_total",
			Help:        "Total number of connections waited for.",
			ConstLabels: labels,
		}),

		BookingTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_transitions_total",
			Help:        "Successful booking lifecycle transitions by history action.",
			ConstLabels: labels,
		}, []string{"action"}),
		SlotConflicts: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_slot_conflicts_total",
			Help:        "Rejected booking writes due to a slot conflict.",
			ConstLabels: labels,
		}, []string{"resource_kind"}),
		TxRetries: factory.NewCounter(prometheus.CounterOpts{
			Name:        "booking_tx_retries_total",
			Help:        "Transactions retried after a serialization failure.",
			ConstLabels: labels,
		}),
		NotifyFailures: factory.NewCounter(prometheus.CounterOpts{
			Name:        "booking_notify_failures_total",
			Help:        "Booking notifications that failed to publish.",
			ConstLabels: labels,
		}),
	}
}

// ObserveTransition учитывает успешный переход жизненного цикла. Безопасен для nil.
func (m *Metrics) ObserveTransition(action string) {
	if m == nil {
		return
	}
	m.BookingTransitions.WithLabelValues(action).Inc()
}

// ObserveSlotConflict учитывает отказ по конфликту слота. Безопасен для nil.
func (m *Metrics) ObserveSlotConflict(resourceKind string) {
	if m == nil {
		return
	}
	m.SlotConflicts.WithLabelValues(resourceKind).Inc()
}

// ObserveTxRetry учитывает повтор транзакции. Безопасен для nil.
func (m *Metrics) ObserveTxRetry() {
	if m == nil {
		return
	}
	m.TxRetries.Inc()
}

// ObserveNotifyFailure учитывает неудачную отправку уведомления. Безопасен для nil.
func (m *Metrics) ObserveNotifyFailure() {
	if m == nil {
		return
	}
	m.NotifyFailures.Inc()
}
