package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Monitor drives one Gatekeeper for one monitored page: a one-shot initial
// tick shortly after start, then a periodic tick until stopped.
type Monitor struct {
	name         string
	url          string
	site         string
	gatekeeper   *Gatekeeper
	observer     TrackObserver
	controller   PlaybackController
	metrics      MetricsRecorder
	logger       *zap.Logger
	pollInterval time.Duration
	initialDelay time.Duration
	now          func() time.Time

	mutex   sync.Mutex
	cancel  context.CancelFunc
	running bool
}

// MonitorOptions configures a Monitor.
type MonitorOptions struct {
	Name         string
	URL          string
	Site         string
	Observer     TrackObserver
	Oracle       BlacklistOracle
	Controller   PlaybackController
	Notifier     Notifier
	Metrics      MetricsRecorder
	Logger       *zap.Logger
	PollInterval time.Duration
	InitialDelay time.Duration
	Cooldown     time.Duration
	CheckTimeout time.Duration
	Now          func() time.Time
}

// PageStatus is a point-in-time view of a monitored page.
type PageStatus struct {
	Name                 string         `json:"name"`
	URL                  string         `json:"url"`
	Site                 string         `json:"site"`
	State                string         `json:"state"`
	Current              *TrackSnapshot `json:"current,omitempty"`
	LastCheckedArtistKey string         `json:"last_checked_artist_key"`
	SuppressedUntil      *time.Time     `json:"suppressed_until,omitempty"`
}

// NewMonitor creates a monitor with a fresh MonitorState.
func NewMonitor(opts MonitorOptions) *Monitor {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Metrics == nil {
		opts.Metrics = nopMetrics{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollIntervalMs * time.Millisecond
	}
	if opts.InitialDelay < 0 {
		opts.InitialDelay = 0
	}

	gatekeeper := NewGatekeeper(GatekeeperOptions{
		Page:         opts.Name,
		Observer:     opts.Observer,
		Oracle:       opts.Oracle,
		Controller:   opts.Controller,
		Notifier:     opts.Notifier,
		State:        NewMonitorState(),
		Metrics:      opts.Metrics,
		Logger:       opts.Logger,
		Cooldown:     opts.Cooldown,
		CheckTimeout: opts.CheckTimeout,
		Now:          opts.Now,
	})

	return &Monitor{
		name:         opts.Name,
		url:          opts.URL,
		site:         opts.Site,
		gatekeeper:   gatekeeper,
		observer:     opts.Observer,
		controller:   opts.Controller,
		metrics:      opts.Metrics,
		logger:       opts.Logger,
		pollInterval: opts.PollInterval,
		initialDelay: opts.InitialDelay,
		now:          opts.Now,
	}
}

// Name returns the page identifier used by the HTTP API and metrics.
func (m *Monitor) Name() string {
	return m.name
}

// State returns the page state holder.
func (m *Monitor) State() *MonitorState {
	return m.gatekeeper.State()
}

// Start runs the poll loop until ctx is done or Stop is called.
// Ticks run as timer callbacks; an overlapping tick is dropped by the gatekeeper.
func (m *Monitor) Start(ctx context.Context) error {
	m.mutex.Lock()
	if m.running {
		m.mutex.Unlock()
		return fmt.Errorf("monitor %s already running", m.name)
	}
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	m.mutex.Unlock()

	defer func() {
		cancel()
		m.mutex.Lock()
		m.running = false
		m.cancel = nil
		m.mutex.Unlock()
	}()

	m.logger.Info("Starting page monitor",
		zap.String("page", m.name),
		zap.String("site", m.site),
		zap.String("url", m.url),
		zap.Duration("pollInterval", m.pollInterval),
		zap.Duration("initialDelay", m.initialDelay))

	initial := time.NewTimer(m.initialDelay)
	defer initial.Stop()

	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	var ticks sync.WaitGroup
	defer ticks.Wait()

	fire := func() {
		ticks.Add(1)
		go func() {
			defer ticks.Done()
			m.gatekeeper.Tick(ctx)
		}()
	}

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("Page monitor stopped", zap.String("page", m.name))
			return nil
		case <-initial.C:
			fire()
		case <-ticker.C:
			fire()
		}
	}
}

// Stop clears both timers and ends the poll loop. Safe to call more than once.
func (m *Monitor) Stop() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.cancel != nil {
		m.cancel()
	}
}

// Status returns the current view of this page.
func (m *Monitor) Status() PageStatus {
	state := m.State()
	now := m.now()

	status := PageStatus{
		Name:                 m.name,
		URL:                  m.url,
		Site:                 m.site,
		State:                state.State(now).String(),
		LastCheckedArtistKey: state.LastCheckedArtistKey(),
	}
	if current, ok := state.Current(); ok {
		status.Current = &current
	}
	if until := state.SuppressedUntil(); now.Before(until) {
		status.SuppressedUntil = &until
	}
	return status
}
