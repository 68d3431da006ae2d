package runner

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	micrortu "github.com/yobol/go-micrortu"
)

var (
	registerOnce sync.Once

	stepsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "micrortu",
			Subsystem: "block",
			Name:      "steps_total",
			Help:      "Steps executed per block.",
		},
		[]string{"block"},
	)
	stepFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "micrortu",
			Subsystem: "block",
			Name:      "step_failures_total",
			Help:      "Steps that trapped or returned a non-zero result.",
		},
		[]string{"block"},
	)
	stepDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "micrortu",
			Subsystem: "block",
			Name:      "step_duration_seconds",
			Help:      "Step duration in seconds, shared data transfer included.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		},
		[]string{"block"},
	)
	logLines = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "micrortu",
			Subsystem: "block",
			Name:      "log_lines_total",
			Help:      "Lines logged by blocks.",
		},
		[]string{"block", "level"},
	)
)

func collectors() []prometheus.Collector {
	return []prometheus.Collector{stepsTotal, stepFailures, stepDuration, logLines}
}

// RegisterMetrics registers the runner metrics with reg, or once with the default registry when reg is nil.
// Registering with the same registry twice is harmless.
func RegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		registerOnce.Do(func() {
			prometheus.MustRegister(collectors()...)
		})
		return
	}
	for _, c := range collectors() {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				micrortu.Logger().Warnf("register runner metrics: %v", err)
			}
		}
	}
}

func recordStep(block string, duration time.Duration, failed bool) {
	stepsTotal.WithLabelValues(block).Inc()
	stepDuration.WithLabelValues(block).Observe(duration.Seconds())
	if failed {
		stepFailures.WithLabelValues(block).Inc()
	}
}
