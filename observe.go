package hopsworks

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// observer records one entry per backend call: a debug or warn log line
// and, when a registry is configured, a counter and latency sample
// labelled by call name and outcome.
type observer struct {
	logger *slog.Logger

	calls   *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer, project string) (*observer, error) {
	o := &observer{logger: logger}
	if reg == nil {
		return o, nil
	}

	labels := prometheus.Labels{"project": project}
	var err error
	o.calls, err = reuseCollector(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   "hopsworks",
		Name:        "api_calls_total",
		Help:        "Backend calls made by the client, by call name and outcome.",
		ConstLabels: labels,
	}, []string{"call", "outcome"}))
	if err != nil {
		return nil, err
	}
	o.latency, err = reuseCollector(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   "hopsworks",
		Name:        "api_call_duration_seconds",
		Help:        "Backend call latency, by call name.",
		Buckets:     prometheus.DefBuckets,
		ConstLabels: labels,
	}, []string{"call"}))
	if err != nil {
		return nil, err
	}
	return o, nil
}

// reuseCollector registers c, or hands back the collector already held by
// the registry when another client for the same project registered it
// first.
func reuseCollector[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var zero T
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		existing, ok := are.ExistingCollector.(T)
		if !ok {
			return zero, fmt.Errorf("hopsworks: collector %T already registered with a different type", c)
		}
		return existing, nil
	}
	return zero, fmt.Errorf("hopsworks: register collector: %w", err)
}

func (o *observer) observe(call string, start time.Time, err error) {
	if o == nil {
		return
	}
	elapsed := time.Since(start)

	if o.calls != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		o.calls.WithLabelValues(call, outcome).Inc()
		o.latency.WithLabelValues(call).Observe(elapsed.Seconds())
	}

	if o.logger == nil {
		return
	}
	if err != nil {
		o.logger.Warn("backend call failed", "call", call, "elapsed", elapsed, "err", err)
		return
	}
	o.logger.Debug("backend call", "call", call, "elapsed", elapsed)
}
