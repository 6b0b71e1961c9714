package social

import (
	"context"
	"fmt"
	"time"

	"github.com/ayo-labs/copilot/internal/cache"
	"github.com/ayo-labs/copilot/internal/domain"
)

// Provider is the social-signal source contract consumed by the brand service.
type Provider interface {
	Signals(ctx context.Context, ticker string, days int) (domain.SocialSignals, error)
}

// Cached wraps a Provider with a TTL cache keyed by ticker and window.
type Cached struct {
	inner   Provider
	signals *cache.TTL[domain.SocialSignals]
}

// NewCached creates a caching signal provider.
func NewCached(inner Provider, ttl time.Duration, maxEntries int, clock cache.Clock) *Cached {
	return &Cached{
		inner:   inner,
		signals: cache.New[domain.SocialSignals](ttl, maxEntries, clock),
	}
}

// Signals returns the cached view or fetches from the inner provider.
func (c *Cached) Signals(ctx context.Context, ticker string, days int) (domain.SocialSignals, error) {
	key := fmt.Sprintf("%s:%d", ticker, days)
	if s, ok := c.signals.Get(key); ok {
		return s, nil
	}

	s, err := c.inner.Signals(ctx, ticker, days)
	if err != nil {
		return domain.SocialSignals{}, fmt.Errorf("fetch social signals %s: %w", ticker, err)
	}

	c.signals.Set(key, s)
	return s, nil
}
