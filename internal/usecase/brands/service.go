// Package brands serves the brand catalog: roster with quotes, detail pages,
// price history, the investment calculator, and event timelines.
package brands

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/ayo-labs/copilot/internal/domain"
	"github.com/ayo-labs/copilot/internal/logger"
	"github.com/ayo-labs/copilot/internal/narrative"
	"github.com/ayo-labs/copilot/internal/quotes"
)

// Listing is one roster entry with its current quote.
type Listing struct {
	Profile domain.BrandProfile
	Quote   domain.Quote
}

// ForecastEvent pairs an upcoming event with its rendered commentary.
type ForecastEvent struct {
	Event      domain.Event
	Commentary narrative.Commentary
}

// Timeline is the full event view for one brand.
type Timeline struct {
	Social   []domain.Event
	Key      []domain.Event
	Forecast []ForecastEvent
}

// periodSpans maps the supported lookback periods to their length.
var periodSpans = map[string]int{
	"1y": 1,
	"2y": 2,
	"3y": 3,
	"5y": 5,
}

// Social history windows in days.
const (
	defaultSocialWindow = 90
	maxSocialWindow     = 365
)

// Service answers brand catalog queries.
type Service struct {
	profiles ProfileReader
	quotes   QuoteProvider
	events   EventReader
	social   SocialReader
	now      func() time.Time
}

// New creates a brands service. now may be nil (time.Now).
func New(profiles ProfileReader, q QuoteProvider, events EventReader, social SocialReader, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{profiles: profiles, quotes: q, events: events, social: social, now: now}
}

// List returns all brand profiles with quotes, ordered by name. A failing
// quote degrades that brand's quote fields to zero, never the listing.
func (s *Service) List(ctx context.Context) ([]Listing, error) {
	profiles, err := s.profiles.Profiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("load brand profiles: %w", err)
	}

	log := logger.FromContext(ctx)

	listings := make([]Listing, 0, len(profiles))
	for _, p := range profiles {
		q, err := s.quotes.Quote(ctx, p.Ticker)
		if err != nil {
			log.Warn("Quote lookup failed for listing", zap.String("ticker", p.Ticker), zap.Error(err))
			q = domain.Quote{}
		}
		listings = append(listings, Listing{Profile: p, Quote: q})
	}
	return listings, nil
}

// Detail returns one brand's profile and quote. Unknown ticker fails with
// domain.ErrBrandNotFound; a quote failure degrades to zero fields.
func (s *Service) Detail(ctx context.Context, ticker string) (Listing, error) {
	p, err := s.profiles.ProfileByTicker(ctx, ticker)
	if err != nil {
		return Listing{}, fmt.Errorf("load brand %s: %w", ticker, err)
	}

	q, err := s.quotes.Quote(ctx, ticker)
	if err != nil {
		logger.FromContext(ctx).Warn("Quote lookup failed for detail", zap.String("ticker", ticker), zap.Error(err))
		q = domain.Quote{}
	}
	return Listing{Profile: p, Quote: q}, nil
}

// Prices returns the daily series for a lookback period ("1y", "2y", "3y",
// "5y") or an explicit [from, to] range when both are non-zero. Unknown
// ticker → ErrBrandNotFound; unknown period → ErrValidation.
func (s *Service) Prices(
	ctx context.Context, ticker, period string, from, to time.Time,
) ([]domain.PricePoint, error) {
	if _, err := s.profiles.ProfileByTicker(ctx, ticker); err != nil {
		return nil, fmt.Errorf("load brand %s: %w", ticker, err)
	}

	if from.IsZero() || to.IsZero() {
		years, ok := periodSpans[period]
		if !ok {
			return nil, fmt.Errorf("%w: unknown period %q", domain.ErrValidation, period)
		}
		to = s.now()
		from = to.AddDate(-years, 0, 0)
	}

	points, err := s.quotes.History(ctx, ticker, from, to)
	if err != nil {
		return nil, fmt.Errorf("load price history %s: %w", ticker, err)
	}
	return points, nil
}

// Calculate answers "what if I had invested amount on date": shares bought at
// the entry close, valued at the latest close, compared against the S&P 500
// over the same window.
func (s *Service) Calculate(
	ctx context.Context, ticker string, amount float64, date time.Time,
) (domain.InvestmentResult, error) {
	if amount <= 0 {
		return domain.InvestmentResult{}, fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	}
	if date.IsZero() {
		return domain.InvestmentResult{}, fmt.Errorf("%w: date is required", domain.ErrValidation)
	}
	now := s.now()
	if date.After(now) {
		return domain.InvestmentResult{}, fmt.Errorf("%w: date is in the future", domain.ErrValidation)
	}

	if _, err := s.profiles.ProfileByTicker(ctx, ticker); err != nil {
		return domain.InvestmentResult{}, fmt.Errorf("load brand %s: %w", ticker, err)
	}

	entry, current, err := s.windowCloses(ctx, ticker, date, now)
	if err != nil {
		return domain.InvestmentResult{}, err
	}

	spEntry, spCurrent, err := s.windowCloses(ctx, quotes.SP500Ticker, date, now)
	if err != nil {
		return domain.InvestmentResult{}, err
	}

	shares := amount / entry
	value := shares * current
	returnPct := (current - entry) / entry * 100
	spReturnPct := (spCurrent - spEntry) / spEntry * 100

	return domain.InvestmentResult{
		Ticker:        ticker,
		Amount:        amount,
		EntryDate:     date,
		EntryPrice:    entry,
		CurrentPrice:  current,
		Shares:        round4(shares),
		CurrentValue:  round2(value),
		Profit:        round2(value - amount),
		ReturnPercent: round2(returnPct),
		SP500Return:   round2(spReturnPct),
		VsMarket:      round2(returnPct - spReturnPct),
	}, nil
}

// Events returns the three timeline lists, attaching commentary to each
// forecast event.
func (s *Service) Events(ctx context.Context, ticker string) (Timeline, error) {
	if _, err := s.profiles.ProfileByTicker(ctx, ticker); err != nil {
		return Timeline{}, fmt.Errorf("load brand %s: %w", ticker, err)
	}

	social, err := s.events.Social(ctx, ticker)
	if err != nil {
		return Timeline{}, fmt.Errorf("load social events: %w", err)
	}
	key, err := s.events.Key(ctx, ticker)
	if err != nil {
		return Timeline{}, fmt.Errorf("load key events: %w", err)
	}
	forecast, err := s.events.Forecast(ctx, ticker)
	if err != nil {
		return Timeline{}, fmt.Errorf("load forecast events: %w", err)
	}

	tl := Timeline{Social: social, Key: key}
	for _, ev := range forecast {
		tl.Forecast = append(tl.Forecast, ForecastEvent{
			Event:      ev,
			Commentary: narrative.ForEvent(ticker, ev),
		})
	}
	return tl, nil
}

// Social returns the social-buzz snapshot and daily history for a brand.
// days outside [1, 365] falls back to the 90-day default. Unknown ticker
// fails with domain.ErrBrandNotFound.
func (s *Service) Social(ctx context.Context, ticker string, days int) (domain.SocialSignals, error) {
	if days <= 0 || days > maxSocialWindow {
		days = defaultSocialWindow
	}

	if _, err := s.profiles.ProfileByTicker(ctx, ticker); err != nil {
		return domain.SocialSignals{}, fmt.Errorf("load brand %s: %w", ticker, err)
	}

	sig, err := s.social.Signals(ctx, ticker, days)
	if err != nil {
		return domain.SocialSignals{}, fmt.Errorf("load social signals %s: %w", ticker, err)
	}
	return sig, nil
}

// windowCloses returns the first and last close in [from, to].
func (s *Service) windowCloses(
	ctx context.Context, ticker string, from, to time.Time,
) (entry, current float64, err error) {
	points, err := s.quotes.History(ctx, ticker, from, to)
	if err != nil {
		return 0, 0, fmt.Errorf("load history %s: %w", ticker, err)
	}
	return points[0].Close, points[len(points)-1].Close, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
