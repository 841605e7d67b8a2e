// Package observer samples a streaming page for the currently playing track.
package observer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"spottheai/internal/core"
	"spottheai/internal/dom"
	"spottheai/internal/site"
)

// Strategy is one independent way of reading the now-playing track.
// Extract reports false when anything it needs is missing.
type Strategy interface {
	Name() string
	Extract(ctx context.Context) (core.TrackSnapshot, bool)
}

// Observer tries its strategies in order and returns the first complete snapshot.
type Observer struct {
	strategies []Strategy
	logger     *zap.Logger
}

// New creates an observer over an explicit strategy list.
func New(logger *zap.Logger, strategies ...Strategy) *Observer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Observer{strategies: strategies, logger: logger}
}

// ForProfile builds the strategy list of profile against doc. Extra strategies
// are tried after the profile's own.
func ForProfile(profile *site.Profile, doc dom.Document, logger *zap.Logger, extra ...Strategy) (*Observer, error) {
	strategies := make([]Strategy, 0, len(profile.Strategies)+len(extra))
	for _, s := range profile.Strategies {
		strategy, err := FromSite(s, doc)
		if err != nil {
			return nil, fmt.Errorf("site %s: %w", profile.Name, err)
		}
		strategies = append(strategies, strategy)
	}
	strategies = append(strategies, extra...)
	return New(logger.With(zap.String("site", profile.Name)), strategies...), nil
}

// FromSite converts a site strategy description into a Strategy bound to doc.
func FromSite(s site.Strategy, doc dom.Document) (Strategy, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	switch s.Kind {
	case site.KindPair:
		return &pairStrategy{name: s.Name, doc: doc, track: s.Track, artist: s.Artist}, nil
	case site.KindScoped:
		return &scopedStrategy{name: s.Name, doc: doc, container: s.Container, track: s.Track, artist: s.Artist}, nil
	default:
		return MediaSessionStrategy(doc), nil
	}
}

// Sample implements core.TrackObserver. It never fails: a strategy that
// errors or finds nothing is skipped.
func (o *Observer) Sample(ctx context.Context) (core.TrackSnapshot, bool) {
	for _, strategy := range o.strategies {
		if ctx.Err() != nil {
			return core.TrackSnapshot{}, false
		}
		if snapshot, ok := o.extract(ctx, strategy); ok {
			o.logger.Debug("Track sampled",
				zap.String("strategy", strategy.Name()),
				zap.String("artist", snapshot.Artist),
				zap.String("track", snapshot.Track))
			return snapshot, true
		}
	}
	return core.TrackSnapshot{}, false
}

func (o *Observer) extract(ctx context.Context, strategy Strategy) (snapshot core.TrackSnapshot, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Warn("Extraction strategy panicked",
				zap.String("strategy", strategy.Name()),
				zap.Any("panic", r))
			snapshot, ok = core.TrackSnapshot{}, false
		}
	}()
	return strategy.Extract(ctx)
}

type pairStrategy struct {
	name   string
	doc    dom.Document
	track  string
	artist string
}

func (s *pairStrategy) Name() string { return s.name }

func (s *pairStrategy) Extract(ctx context.Context) (core.TrackSnapshot, bool) {
	trackNode, ok, err := s.doc.Query(ctx, s.track)
	if err != nil || !ok {
		return core.TrackSnapshot{}, false
	}
	artistNode, ok, err := s.doc.Query(ctx, s.artist)
	if err != nil || !ok {
		return core.TrackSnapshot{}, false
	}
	return core.NewTrackSnapshot(dom.TrimmedText(ctx, artistNode), dom.TrimmedText(ctx, trackNode))
}

type scopedStrategy struct {
	name      string
	doc       dom.Document
	container string
	track     string
	artist    string
}

func (s *scopedStrategy) Name() string { return s.name }

func (s *scopedStrategy) Extract(ctx context.Context) (core.TrackSnapshot, bool) {
	container, ok, err := s.doc.Query(ctx, s.container)
	if err != nil || !ok {
		return core.TrackSnapshot{}, false
	}
	trackNode, ok, err := container.Query(ctx, s.track)
	if err != nil || !ok {
		return core.TrackSnapshot{}, false
	}
	// Several artists may be credited; the first one is the key.
	artists, err := container.QueryAll(ctx, s.artist)
	if err != nil || len(artists) == 0 {
		return core.TrackSnapshot{}, false
	}
	return core.NewTrackSnapshot(dom.TrimmedText(ctx, artists[0]), dom.TrimmedText(ctx, trackNode))
}
