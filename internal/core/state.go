package core

import (
	"sync"
	"time"
)

// MonitorState holds the per-page gatekeeper state. One instance is owned by
// one Monitor; it lives for the lifetime of the monitored page only.
type MonitorState struct {
	mutex                sync.RWMutex
	lastCheckedArtistKey string
	suppressedUntil      time.Time
	current              TrackSnapshot
	hasCurrent           bool
	state                GatekeeperState
}

// NewMonitorState creates an empty state in Idle.
func NewMonitorState() *MonitorState {
	return &MonitorState{state: StateIdle}
}

// LastCheckedArtistKey returns the key of the last artist confirmed clean.
// Empty means nothing is confirmed and the next observation is re-checked.
func (s *MonitorState) LastCheckedArtistKey() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.lastCheckedArtistKey
}

func (s *MonitorState) setLastCheckedArtistKey(key string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.lastCheckedArtistKey = key
}

// ResetLastChecked forces the next sampled artist through the full check path.
func (s *MonitorState) ResetLastChecked() {
	s.setLastCheckedArtistKey("")
}

// Current returns the last observed snapshot, if any.
func (s *MonitorState) Current() (TrackSnapshot, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.current, s.hasCurrent
}

func (s *MonitorState) setCurrent(snapshot TrackSnapshot) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.current = snapshot
	s.hasCurrent = true
}

func (s *MonitorState) clearCurrent() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.current = TrackSnapshot{}
	s.hasCurrent = false
}

// IsSkipSuppressed reports whether a skip cooldown is running at now.
func (s *MonitorState) IsSkipSuppressed(now time.Time) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return now.Before(s.suppressedUntil)
}

// SuppressedUntil returns the end of the current or last cooldown window.
func (s *MonitorState) SuppressedUntil() time.Time {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.suppressedUntil
}

func (s *MonitorState) suppress(until time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.suppressedUntil = until
	s.state = StateSuppressed
}

// State returns the gatekeeper state at now. An expired cooldown reads as Observing.
func (s *MonitorState) State(now time.Time) GatekeeperState {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.state == StateSuppressed && !now.Before(s.suppressedUntil) {
		return StateObserving
	}
	return s.state
}

func (s *MonitorState) setState(state GatekeeperState) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.state = state
}
