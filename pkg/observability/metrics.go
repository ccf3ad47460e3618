package observability

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/liftnav/pkg/domain"
)

const namespace = "liftnav"

// Metrics holds the Prometheus collectors fed by coordinator transitions.
type Metrics struct {
	Transitions *prometheus.CounterVec
	Rejected    *prometheus.CounterVec
	StackDepth  *prometheus.GaugeVec
	Current     *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transitions_total",
				Help:      "Total number of navigation operations applied",
			},
			[]string{"surface", "operation", "handled"},
		),
		Rejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rejected_total",
				Help:      "Total number of navigation operations rejected",
			},
			[]string{"surface", "operation", "reason"},
		),
		StackDepth: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "stack_depth",
				Help:      "Number of open pages",
			},
			[]string{"surface"},
		),
		Current: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "current_index",
				Help:      "Index of the current page",
			},
			[]string{"surface"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Transitions, m.Rejected, m.StackDepth, m.Current)
	}
	return m
}

// Hooks returns lifecycle hooks that record every event into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(e *domain.TransitionEvent) {
			m.Transitions.WithLabelValues(e.Surface, string(e.Operation), strconv.FormatBool(e.Handled)).Inc()
			m.StackDepth.WithLabelValues(e.Surface).Set(float64(e.To.Len()))
			m.Current.WithLabelValues(e.Surface).Set(float64(e.To.CurrentIndex))
		},
		OnRejected: func(e *domain.TransitionEvent, err error) {
			m.Rejected.WithLabelValues(e.Surface, string(e.Operation), reason(err)).Inc()
		},
	}
}

func reason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidIndex):
		return "invalid_index"
	case errors.Is(err, domain.ErrNilDestination):
		return "nil_destination"
	case errors.Is(err, domain.ErrInvalidDestination):
		return "invalid_destination"
	default:
		return "other"
	}
}
