package observer

import (
	"context"

	"spottheai/internal/core"
	"spottheai/internal/dom"
)

// MediaSession reads the page's media-session metadata. It is the fallback
// shared by every site.
func MediaSession(ctx context.Context, doc dom.Document) (core.TrackSnapshot, bool) {
	metadata, ok, err := doc.MediaMetadata(ctx)
	if err != nil || !ok {
		return core.TrackSnapshot{}, false
	}
	return core.NewTrackSnapshot(metadata.Artist, metadata.Title)
}

// MediaSessionStrategy wraps MediaSession as a Strategy.
func MediaSessionStrategy(doc dom.Document) Strategy {
	return &funcStrategy{name: "media-session", fn: func(ctx context.Context) (core.TrackSnapshot, bool) {
		return MediaSession(ctx, doc)
	}}
}

// NowPlayer reports the currently playing track from an out-of-page source.
type NowPlayer interface {
	NowPlaying(ctx context.Context) (core.TrackSnapshot, bool, error)
}

// NowPlayingStrategy wraps a NowPlayer as a Strategy.
func NowPlayingStrategy(name string, player NowPlayer) Strategy {
	return &funcStrategy{name: name, fn: func(ctx context.Context) (core.TrackSnapshot, bool) {
		snapshot, ok, err := player.NowPlaying(ctx)
		if err != nil || !ok {
			return core.TrackSnapshot{}, false
		}
		return core.NewTrackSnapshot(snapshot.Artist, snapshot.Track)
	}}
}

type funcStrategy struct {
	name string
	fn   func(ctx context.Context) (core.TrackSnapshot, bool)
}

func (s *funcStrategy) Name() string { return s.name }

func (s *funcStrategy) Extract(ctx context.Context) (core.TrackSnapshot, bool) {
	return s.fn(ctx)
}
