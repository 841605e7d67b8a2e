// Package spotify provides Spotify Web API integration for reading the
// currently playing track and skipping to the next one.
package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"spottheai/internal/core"
)

const (
	// FilePermission is the permission for token files
	FilePermission = 0600
	// authState is the OAuth state parameter used for the interactive flow
	authState = "spottheai-auth-state"
)

var errNotAuthenticated = errors.New("spotify client not authenticated")

type Client struct {
	config *core.SpotifyConfig
	logger *zap.Logger
	client *spotify.Client
	auth   *spotifyauth.Authenticator
}

type TokenData struct {
	Token *oauth2.Token `json:"token"`
}

func NewClient(config *core.SpotifyConfig, logger *zap.Logger) *Client {
	auth := spotifyauth.New(
		spotifyauth.WithRedirectURL(config.RedirectURL),
		spotifyauth.WithScopes(
			spotifyauth.ScopeUserModifyPlaybackState,
			spotifyauth.ScopeUserReadCurrentlyPlaying,
			spotifyauth.ScopeUserReadPlaybackState,
		),
		spotifyauth.WithClientID(config.ClientID),
		spotifyauth.WithClientSecret(config.ClientSecret),
	)

	return &Client{
		config: config,
		logger: logger,
		auth:   auth,
	}
}

// NewClientWithAPI wraps an already authenticated API client.
func NewClientWithAPI(api *spotify.Client, logger *zap.Logger) *Client {
	return &Client{
		config: &core.SpotifyConfig{},
		logger: logger,
		client: api,
	}
}

func (c *Client) Authenticate(ctx context.Context) error {
	token, err := c.loadToken()
	if err != nil {
		c.logger.Info("No saved token found, starting OAuth flow")
		return c.startOAuthFlow(ctx)
	}

	client := spotify.New(c.auth.Client(ctx, token))
	c.client = client

	user, err := client.CurrentUser(ctx)
	if err != nil {
		c.logger.Warn("Saved token invalid, starting OAuth flow", zap.Error(err))
		return c.startOAuthFlow(ctx)
	}

	c.logger.Info("Authenticated successfully", zap.String("user", user.DisplayName))
	return nil
}

// NowPlaying returns the track playing on the user's active device.
// It reports false when nothing is playing.
func (c *Client) NowPlaying(ctx context.Context) (core.TrackSnapshot, bool, error) {
	if c.client == nil {
		return core.TrackSnapshot{}, false, errNotAuthenticated
	}

	currently, err := c.client.PlayerCurrentlyPlaying(ctx)
	if err != nil {
		return core.TrackSnapshot{}, false, fmt.Errorf("failed to get currently playing: %w", err)
	}

	if currently == nil || currently.Item == nil || !currently.Playing || len(currently.Item.Artists) == 0 {
		return core.TrackSnapshot{}, false, nil
	}

	snapshot, ok := core.NewTrackSnapshot(currently.Item.Artists[0].Name, currently.Item.Name)
	return snapshot, ok, nil
}

// Next skips to the next track on the user's active device.
func (c *Client) Next(ctx context.Context) error {
	if c.client == nil {
		return errNotAuthenticated
	}

	if err := c.client.Next(ctx); err != nil {
		return fmt.Errorf("failed to skip to next track: %w", err)
	}

	c.logger.Debug("Skipped to next track via Spotify API")
	return nil
}

// HasActiveDevice checks if there are any active Spotify devices available for playback
func (c *Client) HasActiveDevice(ctx context.Context) (bool, error) {
	if c.client == nil {
		return false, errNotAuthenticated
	}

	devices, err := c.client.PlayerDevices(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get player devices: %w", err)
	}

	for _, device := range devices {
		if device.Active {
			c.logger.Debug("Found active device",
				zap.String("deviceName", device.Name),
				zap.String("deviceType", device.Type),
				zap.String("deviceID", device.ID.String()))
			return true, nil
		}
	}

	c.logger.Debug("No active devices found",
		zap.Int("totalDevices", len(devices)))
	return false, nil
}

func (c *Client) startOAuthFlow(ctx context.Context) error {
	authURL := c.auth.AuthURL(authState)

	fmt.Printf("Please visit the following URL to authorize the application:\n%s\n", authURL)
	fmt.Print("Enter the authorization code: ")

	var code string
	if _, err := fmt.Scanln(&code); err != nil {
		return fmt.Errorf("failed to read authorization code: %w", err)
	}

	token, err := c.auth.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange code for token: %w", err)
	}

	if saveErr := c.saveToken(token); saveErr != nil {
		c.logger.Warn("Failed to save token", zap.Error(saveErr))
	}

	client := spotify.New(c.auth.Client(ctx, token))
	c.client = client

	user, err := client.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}

	c.logger.Info("OAuth flow completed successfully", zap.String("user", user.DisplayName))
	return nil
}

func (c *Client) loadToken() (*oauth2.Token, error) {
	file, err := os.Open(c.config.TokenPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	var tokenData TokenData
	if err := json.Unmarshal(data, &tokenData); err != nil {
		return nil, err
	}
	if tokenData.Token == nil {
		return nil, fmt.Errorf("token file %s has no token", c.config.TokenPath)
	}

	return tokenData.Token, nil
}

func (c *Client) saveToken(token *oauth2.Token) error {
	tokenData := TokenData{Token: token}

	data, err := json.MarshalIndent(tokenData, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(c.config.TokenPath, data, FilePermission)
}
