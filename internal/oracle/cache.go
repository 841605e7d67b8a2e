package oracle

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"spottheai/internal/core"
)

// Cached remembers verdicts per artist key for a bounded time. Errors and
// partial verdicts are never cached.
type Cached struct {
	next  core.BlacklistOracle
	cache *expirable.LRU[string, core.Verdict]
}

// NewCached wraps next with an LRU of size entries expiring after ttl.
func NewCached(next core.BlacklistOracle, size int, ttl time.Duration) *Cached {
	if size <= 0 {
		size = core.DefaultOracleCacheSize
	}
	return &Cached{
		next:  next,
		cache: expirable.NewLRU[string, core.Verdict](size, nil, ttl),
	}
}

func (c *Cached) CheckArtist(ctx context.Context, artist string) (core.Verdict, error) {
	key := core.ArtistKey(artist)
	if verdict, ok := c.cache.Get(key); ok {
		return verdict, nil
	}

	verdict, err := c.next.CheckArtist(ctx, artist)
	if err != nil {
		return core.Verdict{}, err
	}

	if !verdict.Partial {
		c.cache.Add(key, verdict)
	}
	return verdict, nil
}

// Purge drops every cached verdict.
func (c *Cached) Purge() {
	c.cache.Purge()
}

// Len returns the number of cached verdicts.
func (c *Cached) Len() int {
	return c.cache.Len()
}
