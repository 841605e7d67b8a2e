package http

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"spottheai/internal/core"
)

// Metrics holds the monitor collectors. It implements core.MetricsRecorder.
type Metrics struct {
	TicksTotal            *prometheus.CounterVec
	ExtractionMissesTotal *prometheus.CounterVec
	OracleCallsTotal      *prometheus.CounterVec
	SkipsTotal            *prometheus.CounterVec
	NotificationsTotal    *prometheus.CounterVec
	CheckDuration         *prometheus.HistogramVec
	GatekeeperState       *prometheus.GaugeVec
}

var gatekeeperStates = []core.GatekeeperState{
	core.StateIdle,
	core.StateObserving,
	core.StateChecking,
	core.StateSuppressed,
}

func newMetrics(registerer prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		TicksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spottheai_ticks_total",
				Help: "Total number of gatekeeper ticks",
			},
			[]string{"page"},
		),
		ExtractionMissesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spottheai_extraction_misses_total",
				Help: "Total number of ticks where no track could be extracted",
			},
			[]string{"page"},
		),
		OracleCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spottheai_oracle_calls_total",
				Help: "Total number of blacklist checks by outcome",
			},
			[]string{"page", "outcome"},
		),
		SkipsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spottheai_skips_total",
				Help: "Total number of skip attempts by outcome",
			},
			[]string{"page", "outcome"},
		),
		NotificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spottheai_notifications_total",
				Help: "Total number of skip notifications shown",
			},
			[]string{"page"},
		),
		CheckDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "spottheai_check_duration_seconds",
				Help:    "Time spent waiting for a blacklist verdict",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"page"},
		),
		GatekeeperState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "spottheai_gatekeeper_state",
				Help: "Current gatekeeper state per page (1 for the active state)",
			},
			[]string{"page", "state"},
		),
	}

	registerer.MustRegister(
		metrics.TicksTotal,
		metrics.ExtractionMissesTotal,
		metrics.OracleCallsTotal,
		metrics.SkipsTotal,
		metrics.NotificationsTotal,
		metrics.CheckDuration,
		metrics.GatekeeperState,
	)

	return metrics
}

func (m *Metrics) RecordTick(page string) {
	m.TicksTotal.WithLabelValues(page).Inc()
}

func (m *Metrics) RecordExtractionMiss(page string) {
	m.ExtractionMissesTotal.WithLabelValues(page).Inc()
}

func (m *Metrics) RecordOracleCall(page, outcome string) {
	m.OracleCallsTotal.WithLabelValues(page, outcome).Inc()
}

func (m *Metrics) RecordSkip(page, outcome string) {
	m.SkipsTotal.WithLabelValues(page, outcome).Inc()
}

func (m *Metrics) RecordNotification(page string) {
	m.NotificationsTotal.WithLabelValues(page).Inc()
}

func (m *Metrics) RecordCheckDuration(page string, duration time.Duration) {
	m.CheckDuration.WithLabelValues(page).Observe(duration.Seconds())
}

// SetState sets the gauge of the given state to 1 and every other state to 0.
func (m *Metrics) SetState(page string, state core.GatekeeperState) {
	for _, s := range gatekeeperStates {
		value := 0.0
		if s == state {
			value = 1
		}
		m.GatekeeperState.WithLabelValues(page, s.String()).Set(value)
	}
}
