// Package metrics публикует метрики операций сервиса в Prometheus
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "scheduler"

// Recorder счётчики и длительности операций сервиса расписания
type Recorder struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	storeUp    prometheus.Gauge
}

// NewRecorder регистрирует метрики в reg
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Schedule service operations by outcome.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Schedule service operation latency.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"operation"}),
		storeUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "store_up",
			Help:      "1 if the last store health check succeeded.",
		}),
	}
	reg.MustRegister(r.operations, r.duration, r.storeUp)
	return r
}

// Observe фиксирует результат операции
func (r *Recorder) Observe(_ context.Context, operation string, success bool, d time.Duration) {
	if operation == "" {
		return
	}
	status := "error"
	if success {
		status = "success"
	}
	r.operations.WithLabelValues(operation, status).Inc()
	r.duration.WithLabelValues(operation).Observe(d.Seconds())
}

// SetStoreUp фиксирует результат последней проверки хранилища
func (r *Recorder) SetStoreUp(up bool) {
	if up {
		r.storeUp.Set(1)
		return
	}
	r.storeUp.Set(0)
}
