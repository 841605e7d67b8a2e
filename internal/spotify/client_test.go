package spotify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/zmb3/spotify/v2"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"spottheai/internal/core"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	api := spotify.New(server.Client(), spotify.WithBaseURL(server.URL+"/"))
	return NewClientWithAPI(api, zap.NewNop())
}

func TestClient_NowPlaying(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		ok     bool
		artist string
		track  string
	}{
		{
			name:   "Playing track",
			status: http.StatusOK,
			body: `{"is_playing": true, "item": {"id": "1", "name": "Song",
				"artists": [{"name": "Artist A"}, {"name": "Artist B"}]}}`,
			ok:     true,
			artist: "Artist A",
			track:  "Song",
		},
		{
			name:   "Paused",
			status: http.StatusOK,
			body:   `{"is_playing": false, "item": {"id": "1", "name": "Song", "artists": [{"name": "A"}]}}`,
		},
		{
			name:   "Nothing playing",
			status: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/me/player/currently-playing" {
					t.Errorf("Unexpected path %s", r.URL.Path)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))

			snapshot, ok, err := client.NowPlaying(context.Background())
			if err != nil {
				t.Fatalf("NowPlaying() error: %v", err)
			}
			if ok != tt.ok {
				t.Fatalf("NowPlaying() ok = %v, want %v", ok, tt.ok)
			}
			if ok && (snapshot.Artist != tt.artist || snapshot.Track != tt.track) {
				t.Errorf("NowPlaying() = %+v", snapshot)
			}
		})
	}
}

func TestClient_Next(t *testing.T) {
	var called bool
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/me/player/next" {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		called = true
		w.WriteHeader(http.StatusNoContent)
	}))

	if err := client.Next(context.Background()); err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	if !called {
		t.Error("Expected next endpoint to be called")
	}
}

func TestClient_NextError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": {"status": 404, "message": "No active device found"}}`))
	}))

	if err := client.Next(context.Background()); err == nil {
		t.Error("Expected error without an active device")
	}
}

func TestClient_NotAuthenticated(t *testing.T) {
	client := NewClient(&core.SpotifyConfig{ClientID: "id", ClientSecret: "secret"}, zap.NewNop())

	if _, _, err := client.NowPlaying(context.Background()); err == nil {
		t.Error("Expected error from unauthenticated NowPlaying")
	}
	if err := client.Next(context.Background()); err == nil {
		t.Error("Expected error from unauthenticated Next")
	}
}

func TestClient_TokenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	client := NewClient(&core.SpotifyConfig{TokenPath: path}, zap.NewNop())

	if _, err := client.loadToken(); err == nil {
		t.Error("Expected error loading a missing token file")
	}

	token := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh", Expiry: time.Now().Add(time.Hour)}
	if err := client.saveToken(token); err != nil {
		t.Fatalf("saveToken() error: %v", err)
	}

	loaded, err := client.loadToken()
	if err != nil {
		t.Fatalf("loadToken() error: %v", err)
	}
	if loaded.AccessToken != "access" || loaded.RefreshToken != "refresh" {
		t.Errorf("Unexpected token %+v", loaded)
	}
}
