package core

import (
	"context"
	"strings"
	"time"
)

// TrackSnapshot is an observed (artist, track) pair at a point in time.
type TrackSnapshot struct {
	Artist string `json:"artist"`
	Track  string `json:"track"`
}

// NewTrackSnapshot trims both fields and reports whether the result is usable.
func NewTrackSnapshot(artist, track string) (TrackSnapshot, bool) {
	snapshot := TrackSnapshot{
		Artist: strings.TrimSpace(artist),
		Track:  strings.TrimSpace(track),
	}
	return snapshot, snapshot.Valid()
}

// Valid returns true if both artist and track are non-empty after trimming
func (s TrackSnapshot) Valid() bool {
	return strings.TrimSpace(s.Artist) != "" && strings.TrimSpace(s.Track) != ""
}

// IsZero reports whether the snapshot is empty.
func (s TrackSnapshot) IsZero() bool {
	return s.Artist == "" && s.Track == ""
}

// ArtistKey returns the case-folded artist used to de-duplicate blacklist checks.
func (s TrackSnapshot) ArtistKey() string {
	return ArtistKey(s.Artist)
}

// ArtistKey folds an artist name into its de-duplication key.
func ArtistKey(artist string) string {
	return strings.ToLower(strings.TrimSpace(artist))
}

// Verdict is the answer of the blacklist oracle for one artist.
type Verdict struct {
	Blocked bool   `json:"blocked"`
	Source  string `json:"source,omitempty"`

	// Partial marks a clean verdict given while some backend could not answer.
	Partial bool `json:"-"`
}

type GatekeeperState int

const (
	// StateIdle indicates no track is currently confirmed
	StateIdle GatekeeperState = iota
	// StateObserving indicates a current snapshot is held
	StateObserving
	// StateChecking indicates an oracle verdict is outstanding
	StateChecking
	// StateSuppressed indicates the post-skip cooldown is running
	StateSuppressed
)

func (s GatekeeperState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateObserving:
		return "observing"
	case StateChecking:
		return "checking"
	case StateSuppressed:
		return "suppressed"
	default:
		return "unknown"
	}
}

// TrackObserver samples the page for the currently playing track.
// Returns false when no extraction strategy matched.
type TrackObserver interface {
	Sample(ctx context.Context) (TrackSnapshot, bool)
}

// BlacklistOracle answers whether an artist is blocked and by which rule source.
type BlacklistOracle interface {
	CheckArtist(ctx context.Context, artist string) (Verdict, error)
}

// PlaybackController advances playback to the next track.
// Returns ErrControlNotFound when no skip control could be discovered.
type PlaybackController interface {
	Advance(ctx context.Context) error
}

// Notifier renders a transient confirmation of a skip action.
type Notifier interface {
	NotifySkipped(ctx context.Context, snapshot TrackSnapshot, source string) error
}

// MetricsRecorder receives monitor events. Implemented by the HTTP server.
type MetricsRecorder interface {
	RecordTick(page string)
	RecordExtractionMiss(page string)
	RecordOracleCall(page, outcome string)
	RecordSkip(page, outcome string)
	RecordNotification(page string)
	RecordCheckDuration(page string, duration time.Duration)
	SetState(page string, state GatekeeperState)
}

type nopMetrics struct{}

func (nopMetrics) RecordTick(string)                         {}
func (nopMetrics) RecordExtractionMiss(string)               {}
func (nopMetrics) RecordOracleCall(string, string)           {}
func (nopMetrics) RecordSkip(string, string)                 {}
func (nopMetrics) RecordNotification(string)                 {}
func (nopMetrics) RecordCheckDuration(string, time.Duration) {}
func (nopMetrics) SetState(string, GatekeeperState)          {}

// Outcome labels shared by metrics and logs.
const (
	OutcomeClean       = "clean"
	OutcomeBlocked     = "blocked"
	OutcomeError       = "error"
	OutcomeSkipped     = "skipped"
	OutcomeNoControl   = "no_control"
	OutcomeManual      = "manual"
	OutcomeManualError = "manual_error"
)
