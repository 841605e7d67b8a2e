package browser

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"spottheai/internal/core"
)

func TestSameSite(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected bool
	}{
		{name: "same host different path", a: "https://open.spotify.com/playlist/1", b: "https://open.spotify.com/", expected: true},
		{name: "host case", a: "https://MUSIC.youtube.com/watch?v=1", b: "https://music.youtube.com", expected: true},
		{name: "different subdomain", a: "https://www.youtube.com/", b: "https://music.youtube.com/", expected: false},
		{name: "blank tab", a: "about:blank", b: "https://www.deezer.com/", expected: false},
		{name: "invalid", a: "::", b: "https://www.deezer.com/", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameSite(tt.a, tt.b); got != tt.expected {
				t.Errorf("SameSite(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestManager_OpenPageBeforeStart(t *testing.T) {
	manager := NewManager(&core.BrowserConfig{}, zap.NewNop())

	if _, err := manager.OpenPage(context.Background(), "https://open.spotify.com/"); err == nil {
		t.Error("Expected error opening a page before Start")
	}
}

func TestManager_StartAfterClose(t *testing.T) {
	manager := NewManager(&core.BrowserConfig{}, zap.NewNop())

	if err := manager.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := manager.Start(context.Background()); err == nil {
		t.Error("Expected error starting a closed manager")
	}
}
