package quotes

import (
	"context"
	"fmt"
	"time"

	"github.com/ayo-labs/copilot/internal/cache"
	"github.com/ayo-labs/copilot/internal/domain"
)

// Provider is the quote source contract consumed by the brand service.
type Provider interface {
	Quote(ctx context.Context, ticker string) (domain.Quote, error)
	History(ctx context.Context, ticker string, from, to time.Time) ([]domain.PricePoint, error)
}

// Cached wraps a Provider with a TTL cache on quotes. History is served
// straight from the inner provider: ranges vary per request and the synthetic
// series is cheap to regenerate.
type Cached struct {
	inner  Provider
	quotes *cache.TTL[domain.Quote]
}

// NewCached creates a caching quote provider.
func NewCached(inner Provider, ttl time.Duration, maxEntries int, clock cache.Clock) *Cached {
	return &Cached{
		inner:  inner,
		quotes: cache.New[domain.Quote](ttl, maxEntries, clock),
	}
}

// Quote returns the cached snapshot or fetches from the inner provider.
func (c *Cached) Quote(ctx context.Context, ticker string) (domain.Quote, error) {
	if q, ok := c.quotes.Get(ticker); ok {
		return q, nil
	}

	q, err := c.inner.Quote(ctx, ticker)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("fetch quote %s: %w", ticker, err)
	}

	c.quotes.Set(ticker, q)
	return q, nil
}

// History delegates to the inner provider.
func (c *Cached) History(ctx context.Context, ticker string, from, to time.Time) ([]domain.PricePoint, error) {
	return c.inner.History(ctx, ticker, from, to)
}
