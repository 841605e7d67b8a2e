package playback

import (
	"context"
	"fmt"
)

// Skipper skips the current track through a streaming service API.
type Skipper interface {
	Next(ctx context.Context) error
}

// APIController advances playback through a service API instead of the page.
type APIController struct {
	skipper Skipper
}

// NewAPIController wraps skipper, e.g. the Spotify Web API client.
func NewAPIController(skipper Skipper) *APIController {
	return &APIController{skipper: skipper}
}

func (c *APIController) Advance(ctx context.Context) error {
	if err := c.skipper.Next(ctx); err != nil {
		return fmt.Errorf("api skip: %w", err)
	}
	return nil
}
