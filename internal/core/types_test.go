package core

import "testing"

func TestNewTrackSnapshot(t *testing.T) {
	tests := []struct {
		name      string
		artist    string
		track     string
		want      TrackSnapshot
		wantValid bool
	}{
		{"trimmed", "  Artist ", "\tTrack\n", TrackSnapshot{Artist: "Artist", Track: "Track"}, true},
		{"empty artist", "   ", "Track", TrackSnapshot{Track: "Track"}, false},
		{"empty track", "Artist", "", TrackSnapshot{Artist: "Artist"}, false},
		{"both empty", "", "", TrackSnapshot{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NewTrackSnapshot(tt.artist, tt.track)
			if got != tt.want {
				t.Errorf("NewTrackSnapshot() = %+v, expected %+v", got, tt.want)
			}
			if ok != tt.wantValid {
				t.Errorf("NewTrackSnapshot() valid = %v, expected %v", ok, tt.wantValid)
			}
		})
	}
}

func TestTrackSnapshot_IsZero(t *testing.T) {
	if !(TrackSnapshot{}).IsZero() {
		t.Error("Empty snapshot should be zero")
	}
	if (TrackSnapshot{Artist: "A"}).IsZero() {
		t.Error("Snapshot with an artist should not be zero")
	}
}

func TestArtistKey(t *testing.T) {
	tests := []struct {
		artist string
		want   string
	}{
		{"Artist", "artist"},
		{"  The BAND  ", "the band"},
		{"Beyoncé", "beyoncé"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ArtistKey(tt.artist); got != tt.want {
			t.Errorf("ArtistKey(%q) = %q, expected %q", tt.artist, got, tt.want)
		}
	}

	// The key ignores the track, so a new track by the same artist is not re-checked.
	a := TrackSnapshot{Artist: "Artist", Track: "One"}
	b := TrackSnapshot{Artist: "ARTIST ", Track: "Two"}
	if a.ArtistKey() != b.ArtistKey() {
		t.Errorf("Expected equal keys, got %q and %q", a.ArtistKey(), b.ArtistKey())
	}
}

func TestGatekeeperState_String(t *testing.T) {
	tests := []struct {
		state GatekeeperState
		want  string
	}{
		{StateIdle, "idle"},
		{StateObserving, "observing"},
		{StateChecking, "checking"},
		{StateSuppressed, "suppressed"},
		{GatekeeperState(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("GatekeeperState(%d).String() = %q, expected %q", tt.state, got, tt.want)
		}
	}
}
