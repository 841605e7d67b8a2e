package site

import (
	"errors"
	"strings"
	"testing"
)

func TestRegistry_Match(t *testing.T) {
	t.Helper()

	registry := NewRegistry()

	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{
			name:     "Spotify web player",
			url:      "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M",
			expected: "spotify",
		},
		{
			name:     "Deezer with locale path",
			url:      "https://www.deezer.com/fr/album/302127",
			expected: "deezer",
		},
		{
			name:     "YouTube Music",
			url:      "https://music.youtube.com/watch?v=dQw4w9WgXcQ",
			expected: "youtube-music",
		},
		{
			name:     "Host is case-insensitive",
			url:      "https://OPEN.SPOTIFY.COM/",
			expected: "spotify",
		},
		{
			name:     "Plain YouTube is not YouTube Music",
			url:      "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			expected: "",
		},
		{
			name:     "Lookalike host",
			url:      "https://notdeezer.com/",
			expected: "",
		},
		{
			name:     "Not a URL",
			url:      "::",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, err := registry.Match(tt.url)
			if tt.expected == "" {
				if !errors.Is(err, ErrNoProfile) {
					t.Errorf("Match(%q) expected ErrNoProfile, got %v", tt.url, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Match(%q) error: %v", tt.url, err)
			}
			if profile.Name != tt.expected {
				t.Errorf("Match(%q) = %s, want %s", tt.url, profile.Name, tt.expected)
			}
		})
	}
}

func TestBuiltinProfilesValid(t *testing.T) {
	for _, p := range Builtin() {
		if err := p.Validate(); err != nil {
			t.Errorf("Built-in profile %s invalid: %v", p.Name, err)
		}
		last := p.Strategies[len(p.Strategies)-1]
		if last.Kind != KindMediaSession {
			t.Errorf("Profile %s should end with the media-session fallback, got %s", p.Name, last.Kind)
		}
		if len(p.SkipSelectors) == 0 {
			t.Errorf("Profile %s has no skip selectors", p.Name)
		}
	}
}

func TestRegistry_LoadOverrides(t *testing.T) {
	registry := NewRegistry()

	overrides := `
profiles:
  - name: spotify
    skip_selectors:
      - 'button[data-testid="next"]'
    banner_color: "#000000"
  - name: tidal
    hosts: [listen.tidal.com]
    strategies:
      - name: footer
        kind: pair
        track: '[data-test="footer-track-title"]'
        artist: '[data-test="grid-item-detail-text-title-artist"]'
      - name: media-session
        kind: media-session
    skip_selectors: ['[data-test="next"]']
`
	if err := registry.Load(strings.NewReader(overrides)); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	spotify, ok := registry.Lookup("spotify")
	if !ok {
		t.Fatal("Expected spotify profile")
	}
	if len(spotify.SkipSelectors) != 1 || spotify.SkipSelectors[0] != `button[data-testid="next"]` {
		t.Errorf("Expected skip selectors to be replaced, got %v", spotify.SkipSelectors)
	}
	if spotify.BannerColor != "#000000" {
		t.Errorf("Expected banner colour override, got %s", spotify.BannerColor)
	}
	if len(spotify.Strategies) != len(Spotify().Strategies) {
		t.Error("Expected strategies to be kept when not overridden")
	}

	tidal, err := registry.Match("https://listen.tidal.com/album/1")
	if err != nil || tidal.Name != "tidal" {
		t.Errorf("Expected new tidal profile to match, got %v, %v", tidal, err)
	}
}

func TestRegistry_LoadRejectsIncompleteProfile(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "missing name",
			yaml: "profiles:\n  - hosts: [example.com]\n",
		},
		{
			name: "new profile without strategies",
			yaml: "profiles:\n  - name: tidal\n    hosts: [listen.tidal.com]\n",
		},
		{
			name: "unknown strategy kind",
			yaml: "profiles:\n  - name: spotify\n    strategies:\n      - name: x\n        kind: xpath\n",
		},
		{
			name: "scoped without container",
			yaml: "profiles:\n  - name: spotify\n    strategies:\n      - name: x\n        kind: scoped\n        track: a\n        artist: b\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry()
			if err := registry.Load(strings.NewReader(tt.yaml)); err == nil {
				t.Error("Expected error for invalid override")
			}
		})
	}
}

func TestRegistry_LoadEmpty(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Load(strings.NewReader("")); err != nil {
		t.Errorf("Expected empty file to be accepted, got %v", err)
	}
	if len(registry.Profiles()) != 3 {
		t.Errorf("Expected built-in profiles only, got %d", len(registry.Profiles()))
	}
}
