package core

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// CurrentTrack answers a "what is currently playing" request with a fresh sample.
// A miss is reported as false; the cached snapshot is not substituted.
func (m *Monitor) CurrentTrack(ctx context.Context) (TrackSnapshot, bool) {
	snapshot, ok := m.observer.Sample(ctx)
	if !ok {
		return TrackSnapshot{}, false
	}
	m.State().setCurrent(snapshot)
	return snapshot, true
}

// SkipNow advances playback directly, bypassing the gatekeeper, and resets the
// last confirmed artist so the next tick re-evaluates whatever plays.
func (m *Monitor) SkipNow(ctx context.Context) bool {
	err := m.controller.Advance(ctx)
	m.State().ResetLastChecked()

	if err != nil {
		if errors.Is(err, ErrControlNotFound) {
			m.logger.Warn("Manual skip: skip control not found", zap.String("page", m.name))
		} else {
			m.logger.Error("Manual skip failed", zap.String("page", m.name), zap.Error(err))
		}
		m.metrics.RecordSkip(m.name, OutcomeManualError)
		return false
	}

	m.logger.Info("Manual skip", zap.String("page", m.name))
	m.metrics.RecordSkip(m.name, OutcomeManual)
	return true
}

// Pages indexes the monitors of one process by page name.
type Pages struct {
	monitors map[string]*Monitor
}

// NewPages creates an index over the given monitors. Names must be unique.
func NewPages(monitors ...*Monitor) (*Pages, error) {
	p := &Pages{monitors: make(map[string]*Monitor, len(monitors))}
	for _, m := range monitors {
		if _, exists := p.monitors[m.Name()]; exists {
			return nil, fmt.Errorf("duplicate page name %q", m.Name())
		}
		p.monitors[m.Name()] = m
	}
	return p, nil
}

// Lookup returns the monitor for name or ErrUnknownPage.
func (p *Pages) Lookup(name string) (*Monitor, error) {
	m, ok := p.monitors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPage, name)
	}
	return m, nil
}

// All returns the monitors sorted by name.
func (p *Pages) All() []*Monitor {
	all := make([]*Monitor, 0, len(p.monitors))
	for _, m := range p.monitors {
		all = append(all, m)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name() < all[j].Name() })
	return all
}

// Statuses returns the status of every page sorted by name.
func (p *Pages) Statuses() []PageStatus {
	all := p.All()
	statuses := make([]PageStatus, 0, len(all))
	for _, m := range all {
		statuses = append(statuses, m.Status())
	}
	return statuses
}
