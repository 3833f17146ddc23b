package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Исходы бронирования для BookingOutcomes
const (
	OutcomeCreated        = "created"
	OutcomeConflict       = "conflict"
	OutcomeNoAvailability = "no_availability"
	OutcomeNoQualified    = "no_qualified"
	OutcomeInvalid        = "invalid"
	OutcomeError          = "error"
)

// Режимы бронирования для BookingOutcomes
const (
	ModeSmart  = "smart"
	ModeManual = "manual"
)

// Metrics набор prometheus-метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration   *prometheus.HistogramVec
	DBQueryErrors     *prometheus.CounterVec
	DBOpenConnections *prometheus.GaugeVec

	BookingOutcomes *prometheus.CounterVec
	PreviewCache    *prometheus.CounterVec
}

// New создает метрики и регистрирует их в глобальном реестре prometheus
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry создает метрики и регистрирует их в переданном реестре
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),

		DBQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries",
			ConstLabels: constLabels,
		}, []string{"operation"}),

		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_connections",
			Help:        "Database connection pool state",
			ConstLabels: constLabels,
		}, []string{"state"}),

		BookingOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_outcomes_total",
			Help:        "Outcomes of booking commit attempts",
			ConstLabels: constLabels,
		}, []string{"mode", "outcome"}),

		PreviewCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "preview_cache_requests_total",
			Help:        "Preview cache lookups by result",
			ConstLabels: constLabels,
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBOpenConnections,
		m.BookingOutcomes,
		m.PreviewCache,
	)

	return m
}

// RecordBooking учитывает исход попытки бронирования. Безопасен для nil.
func (m *Metrics) RecordBooking(mode, outcome string) {
	if m == nil {
		return
	}
	m.BookingOutcomes.WithLabelValues(mode, outcome).Inc()
}

// RecordPreviewCache учитывает hit/miss кэша предпросмотра. Безопасен для nil.
func (m *Metrics) RecordPreviewCache(result string) {
	if m == nil {
		return
	}
	m.PreviewCache.WithLabelValues(result).Inc()
}
