package brands

import (
	"context"
	"time"

	"github.com/ayo-labs/copilot/internal/domain"
)

// ProfileReader reads brand metadata.
type ProfileReader interface {
	Profiles(ctx context.Context) ([]domain.BrandProfile, error)
	ProfileByTicker(ctx context.Context, ticker string) (domain.BrandProfile, error)
}

// QuoteProvider serves market snapshots and daily history.
type QuoteProvider interface {
	Quote(ctx context.Context, ticker string) (domain.Quote, error)
	History(ctx context.Context, ticker string, from, to time.Time) ([]domain.PricePoint, error)
}

// SocialReader serves the social-buzz view for a ticker.
type SocialReader interface {
	Signals(ctx context.Context, ticker string, days int) (domain.SocialSignals, error)
}

// EventReader reads the brand timeline tables.
type EventReader interface {
	Social(ctx context.Context, ticker string) ([]domain.Event, error)
	Key(ctx context.Context, ticker string) ([]domain.Event, error)
	Forecast(ctx context.Context, ticker string) ([]domain.Event, error)
}
