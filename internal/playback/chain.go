package playback

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"spottheai/internal/core"
)

// Chain tries each controller in order until one advances playback.
type Chain struct {
	controllers []core.PlaybackController
	logger      *zap.Logger
}

// NewChain creates a chain. Nil controllers are ignored.
func NewChain(logger *zap.Logger, controllers ...core.PlaybackController) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Chain{logger: logger}
	for _, controller := range controllers {
		if controller != nil {
			c.controllers = append(c.controllers, controller)
		}
	}
	return c
}

// Advance returns nil on the first success. If every controller failed it
// returns core.ErrControlNotFound when none found a control, otherwise the
// last real error.
func (c *Chain) Advance(ctx context.Context) error {
	var lastErr error
	for _, controller := range c.controllers {
		err := controller.Advance(ctx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, core.ErrControlNotFound) {
			c.logger.Debug("Playback controller failed, trying next", zap.Error(err))
			lastErr = err
		}
	}
	if lastErr != nil {
		return lastErr
	}
	return core.ErrControlNotFound
}
