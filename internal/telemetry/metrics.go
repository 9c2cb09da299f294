package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics — Prometheus метрики выполнения сервисов.
//
// Все методы безопасны для nil-получателя: код, которому метрики
// не нужны (тесты, CLI), передаёт nil.
type Metrics struct {
	runs          *prometheus.CounterVec
	inputFailures *prometheus.CounterVec
	outputs       *prometheus.CounterVec
	duration      *prometheus.HistogramVec
}

// NewMetrics регистрирует метрики в reg.
// Если reg == nil, используется prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "xws_runs_total",
			Help: "Total service runs by final status",
		}, []string{"worker", "status"}),
		inputFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "xws_input_failures_total",
			Help: "Total invalid input errors",
		}, []string{"worker"}),
		outputs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "xws_outputs_written_total",
			Help: "Total output documents written",
		}, []string{"worker"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "xws_run_duration_seconds",
			Help:    "Service run duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"worker"}),
	}
}

// ObserveRun учитывает завершённое выполнение.
func (m *Metrics) ObserveRun(worker, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(worker, status).Inc()
	m.duration.WithLabelValues(worker).Observe(d.Seconds())
}

// AddInputFailures учитывает ошибки входных данных.
func (m *Metrics) AddInputFailures(worker string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.inputFailures.WithLabelValues(worker).Add(float64(n))
}

// IncOutputs учитывает записанный документ.
func (m *Metrics) IncOutputs(worker string) {
	if m == nil {
		return
	}
	m.outputs.WithLabelValues(worker).Inc()
}
