package core

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Gatekeeper decides whether a newly observed artist warrants a blacklist
// check, issues the check and reacts to the verdict.
type Gatekeeper struct {
	page         string
	observer     TrackObserver
	oracle       BlacklistOracle
	controller   PlaybackController
	notifier     Notifier
	state        *MonitorState
	metrics      MetricsRecorder
	logger       *zap.Logger
	cooldown     time.Duration
	checkTimeout time.Duration
	now          func() time.Time

	// checkInFlight keeps overlapping ticks from issuing a second oracle call.
	checkInFlight atomic.Bool
}

// GatekeeperOptions configures a Gatekeeper. Notifier, Metrics and Now are optional.
type GatekeeperOptions struct {
	Page         string
	Observer     TrackObserver
	Oracle       BlacklistOracle
	Controller   PlaybackController
	Notifier     Notifier
	State        *MonitorState
	Metrics      MetricsRecorder
	Logger       *zap.Logger
	Cooldown     time.Duration
	CheckTimeout time.Duration
	Now          func() time.Time
}

// NewGatekeeper creates a gatekeeper bound to one page's state.
func NewGatekeeper(opts GatekeeperOptions) *Gatekeeper {
	g := &Gatekeeper{
		page:         opts.Page,
		observer:     opts.Observer,
		oracle:       opts.Oracle,
		controller:   opts.Controller,
		notifier:     opts.Notifier,
		state:        opts.State,
		metrics:      opts.Metrics,
		logger:       opts.Logger,
		cooldown:     opts.Cooldown,
		checkTimeout: opts.CheckTimeout,
		now:          opts.Now,
	}

	if g.state == nil {
		g.state = NewMonitorState()
	}
	if g.metrics == nil {
		g.metrics = nopMetrics{}
	}
	if g.logger == nil {
		g.logger = zap.NewNop()
	}
	if g.now == nil {
		g.now = time.Now
	}
	if g.cooldown <= 0 {
		g.cooldown = DefaultCooldownMs * time.Millisecond
	}

	return g
}

// State returns the state holder this gatekeeper mutates.
func (g *Gatekeeper) State() *MonitorState {
	return g.state
}

// Tick runs one scheduled evaluation. It never panics and never returns an
// error: every failure is recovered locally so later ticks keep running.
func (g *Gatekeeper) Tick(ctx context.Context) {
	if !g.checkInFlight.CompareAndSwap(false, true) {
		g.logger.Debug("Previous tick still in flight, skipping", zap.String("page", g.page))
		return
	}
	defer g.checkInFlight.Store(false)
	defer g.recoverTick()

	g.metrics.RecordTick(g.page)

	if g.state.IsSkipSuppressed(g.now()) {
		return
	}

	snapshot, ok := g.observer.Sample(ctx)
	if !ok {
		g.state.clearCurrent()
		g.transition(StateIdle)
		g.metrics.RecordExtractionMiss(g.page)
		return
	}

	g.state.setCurrent(snapshot)

	key := snapshot.ArtistKey()
	if key == g.state.LastCheckedArtistKey() {
		g.transition(StateObserving)
		return
	}

	g.check(ctx, snapshot, key)
}

// check asks the oracle about the sampled artist and applies the verdict
func (g *Gatekeeper) check(ctx context.Context, snapshot TrackSnapshot, key string) {
	g.transition(StateChecking)

	g.logger.Debug("Checking artist",
		zap.String("page", g.page),
		zap.String("artist", snapshot.Artist),
		zap.String("track", snapshot.Track))

	checkCtx := ctx
	if g.checkTimeout > 0 {
		var cancel context.CancelFunc
		checkCtx, cancel = context.WithTimeout(ctx, g.checkTimeout)
		defer cancel()
	}

	started := g.now()
	verdict, err := g.oracle.CheckArtist(checkCtx, snapshot.Artist)
	g.metrics.RecordCheckDuration(g.page, g.now().Sub(started))

	if err != nil {
		g.logger.Warn("Blacklist check failed",
			zap.String("page", g.page),
			zap.String("artist", snapshot.Artist),
			zap.Error(err))
		g.metrics.RecordOracleCall(g.page, OutcomeError)
		g.transition(StateObserving)
		return
	}

	if !verdict.Blocked {
		g.state.setLastCheckedArtistKey(key)
		g.metrics.RecordOracleCall(g.page, OutcomeClean)
		g.transition(StateObserving)
		return
	}

	g.metrics.RecordOracleCall(g.page, OutcomeBlocked)
	g.handleBlocked(ctx, snapshot, verdict)
}

// handleBlocked skips the track, notifies on success and always enters the cooldown
func (g *Gatekeeper) handleBlocked(ctx context.Context, snapshot TrackSnapshot, verdict Verdict) {
	g.logger.Info("Blocked artist playing",
		zap.String("page", g.page),
		zap.String("artist", snapshot.Artist),
		zap.String("track", snapshot.Track),
		zap.String("source", verdict.Source))

	// Whatever plays next is re-evaluated, even if it resolves to the same artist.
	g.state.ResetLastChecked()

	defer func() {
		g.state.suppress(g.now().Add(g.cooldown))
		g.metrics.SetState(g.page, StateSuppressed)
	}()

	if err := g.controller.Advance(ctx); err != nil {
		if errors.Is(err, ErrControlNotFound) {
			g.logger.Warn("Skip control not found", zap.String("page", g.page))
		} else {
			g.logger.Error("Failed to advance playback", zap.String("page", g.page), zap.Error(err))
		}
		g.metrics.RecordSkip(g.page, OutcomeNoControl)
	} else {
		g.metrics.RecordSkip(g.page, OutcomeSkipped)
		g.notify(ctx, snapshot, verdict.Source)
	}
}

func (g *Gatekeeper) notify(ctx context.Context, snapshot TrackSnapshot, source string) {
	if g.notifier == nil {
		return
	}
	if err := g.notifier.NotifySkipped(ctx, snapshot, source); err != nil {
		g.logger.Warn("Failed to show skip notification", zap.String("page", g.page), zap.Error(err))
		return
	}
	g.metrics.RecordNotification(g.page)
}

func (g *Gatekeeper) transition(state GatekeeperState) {
	g.state.setState(state)
	g.metrics.SetState(g.page, state)
}

func (g *Gatekeeper) recoverTick() {
	r := recover()
	if r == nil {
		return
	}
	g.logger.Error("Recovered from panic during tick",
		zap.String("page", g.page),
		zap.Any("panic", r),
		zap.Stack("stack"))
	if g.state.State(g.now()) == StateChecking {
		g.transition(StateObserving)
	}
}
