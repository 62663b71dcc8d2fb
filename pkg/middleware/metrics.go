package middleware

import (
	"time"

	"github.com/aretw0/oodux/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels of the dispatch counter.
const (
	OutcomeHandled = "handled"
	OutcomeIgnored = "ignored"
	OutcomeError   = "error"
)

// Collectors groups the metrics recorded by Metrics.
type Collectors struct {
	Actions  *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewCollectors creates the dispatch metrics and registers them with reg.
// A nil reg leaves them unregistered.
func NewCollectors(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		Actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oodux_actions_total",
				Help: "Total number of dispatched actions",
			},
			[]string{"type", "outcome"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "oodux_dispatch_duration_seconds",
				Help:    "Duration of action reductions",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
			},
			[]string{"type"},
		),
	}
	if reg != nil {
		reg.MustRegister(c.Actions, c.Duration)
	}
	return c
}

// Metrics counts dispatches by action type and outcome and observes their
// duration. Collectors are registered with reg once per call.
func Metrics(reg prometheus.Registerer) Middleware {
	return NewCollectors(reg).Middleware()
}

// Middleware records into c.
func (c *Collectors) Middleware() Middleware {
	return func(next Handler) Handler {
		return func(a domain.Action) (bool, error) {
			start := time.Now()
			handled, err := next(a)
			c.Duration.WithLabelValues(a.Type).Observe(time.Since(start).Seconds())
			c.Actions.WithLabelValues(a.Type, outcome(handled, err)).Inc()
			return handled, err
		}
	}
}

func outcome(handled bool, err error) string {
	switch {
	case err != nil:
		return OutcomeError
	case handled:
		return OutcomeHandled
	}
	return OutcomeIgnored
}
