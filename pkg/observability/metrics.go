package observability

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/aretw0/diagram/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by the engine hooks.
type Metrics struct {
	submissions    *prometheus.CounterVec
	skippedMatches prometheus.Counter
	boundsRequests prometheus.Counter
	boundsResults  *prometheus.CounterVec
	boundsEntries  *prometheus.CounterVec
	roundTrip      prometheus.Histogram
	actions        *prometheus.CounterVec

	mu      sync.Mutex
	started map[string]time.Time
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "diagram_model_submissions_total",
				Help: "Models pushed to the rendering layer",
			},
			[]string{"action_kind", "incremental"},
		),
		skippedMatches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "diagram_matches_skipped_total",
			Help: "Matches that could not be applied to the current model",
		}),
		boundsRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "diagram_bounds_requests_total",
			Help: "Bounds measurement requests sent to the rendering layer",
		}),
		boundsResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "diagram_bounds_responses_total",
				Help: "Bounds measurement responses by outcome",
			},
			[]string{"outcome"},
		),
		boundsEntries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "diagram_bounds_entries_total",
				Help: "Measured element bounds by outcome",
			},
			[]string{"outcome"},
		),
		roundTrip: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "diagram_bounds_round_trip_seconds",
			Help:    "Time between a bounds request and its accepted response",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "diagram_actions_total",
				Help: "Actions delivered by the dispatcher",
			},
			[]string{"kind", "outcome"},
		),
		started: make(map[string]time.Time),
	}

	for _, c := range []prometheus.Collector{
		m.submissions, m.skippedMatches, m.boundsRequests,
		m.boundsResults, m.boundsEntries, m.roundTrip, m.actions,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks recording into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnModelSubmitted: func(_ context.Context, e *domain.SubmissionEvent) {
			m.submissions.WithLabelValues(e.ActionKind, strconv.FormatBool(e.Incremental)).Inc()
			m.skippedMatches.Add(float64(e.Skipped))
		},
		OnBoundsRequest: func(_ context.Context, e *domain.BoundsEvent) {
			m.boundsRequests.Inc()
			m.mu.Lock()
			m.started[e.RequestID] = e.Timestamp
			m.mu.Unlock()
		},
		OnBoundsComputed: func(_ context.Context, e *domain.BoundsEvent) {
			if e.Stale {
				m.boundsResults.WithLabelValues("stale").Inc()
				m.boundsEntries.WithLabelValues("stale").Add(float64(e.Skipped))
				return
			}
			m.boundsResults.WithLabelValues("accepted").Inc()
			m.boundsEntries.WithLabelValues("applied").Add(float64(e.Applied))
			m.boundsEntries.WithLabelValues("skipped").Add(float64(e.Skipped))

			m.mu.Lock()
			start, ok := m.started[e.RequestID]
			// Accepted responses settle every request still in flight.
			clear(m.started)
			m.mu.Unlock()
			if ok {
				m.roundTrip.Observe(e.Timestamp.Sub(start).Seconds())
			}
		},
	}
}

// ObserveDelivery records one dispatcher delivery. Its signature matches dispatch.DeliveryHook.
func (m *Metrics) ObserveDelivery(_ context.Context, action domain.Action, handlers int, err error) {
	outcome := "handled"
	switch {
	case err != nil:
		outcome = "error"
	case handlers == 0:
		outcome = "dropped"
	}
	m.actions.WithLabelValues(action.Kind(), outcome).Inc()
}
