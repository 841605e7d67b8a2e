package oracle

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"spottheai/internal/core"
)

// Chain asks every backend in order. The first blocked verdict wins; an error
// is returned only when no backend answered. A clean verdict reached while
// some backend failed is marked Partial.
type Chain struct {
	backends []core.BlacklistOracle
	logger   *zap.Logger
}

func NewChain(logger *zap.Logger, backends ...core.BlacklistOracle) *Chain {
	return &Chain{backends: backends, logger: logger}
}

func (c *Chain) CheckArtist(ctx context.Context, artist string) (core.Verdict, error) {
	var errs []error
	answered := false

	for _, backend := range c.backends {
		verdict, err := backend.CheckArtist(ctx, artist)
		if err != nil {
			c.logger.Debug("Blacklist backend failed", zap.String("artist", artist), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		answered = true
		if verdict.Blocked {
			return verdict, nil
		}
	}

	if len(errs) == 0 {
		return core.Verdict{}, nil
	}
	if !answered {
		return core.Verdict{}, errors.Join(errs...)
	}

	c.logger.Warn("Clean verdict with failing blacklist backends",
		zap.String("artist", artist),
		zap.Int("failed", len(errs)),
		zap.Error(errors.Join(errs...)))
	return core.Verdict{Partial: true}, nil
}
