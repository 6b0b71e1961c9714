// Package quotes provides market quotes and daily price history.
//
// Live market-data vendors are external collaborators; this provider serves
// the deterministic synthetic series the product falls back to, so every
// request for the same ticker and date yields the same bar.
package quotes

import (
	"context"
	"hash/fnv"
	"math"
	"time"

	"github.com/ayo-labs/copilot/internal/domain"
)

// SP500Ticker is the index symbol used for market comparisons.
const SP500Ticker = "^GSPC"

// tickerStats seeds the synthetic series per ticker.
type tickerStats struct {
	BasePrice        float64
	MarketCap        float64
	FiftyTwoWeekHigh float64
	FiftyTwoWeekLow  float64
	Volume           int64
}

// baseStats carries the reference snapshot per covered brand. Unknown tickers
// fall back to defaultStats.
var baseStats = map[string]tickerStats{
	"NKE":       {BasePrice: 72.45, MarketCap: 108_500_000_000, FiftyTwoWeekHigh: 123.39, FiftyTwoWeekLow: 70.75, Volume: 8_234_567},
	"AAPL":      {BasePrice: 189.95, MarketCap: 2_950_000_000_000, FiftyTwoWeekHigh: 199.62, FiftyTwoWeekLow: 164.08, Volume: 52_345_678},
	"TSLA":      {BasePrice: 242.84, MarketCap: 772_000_000_000, FiftyTwoWeekHigh: 299.29, FiftyTwoWeekLow: 138.80, Volume: 98_765_432},
	"NFLX":      {BasePrice: 487.23, MarketCap: 209_000_000_000, FiftyTwoWeekHigh: 700.99, FiftyTwoWeekLow: 344.73, Volume: 3_456_789},
	SP500Ticker: {BasePrice: 5200, Volume: 0},
}

var defaultStats = tickerStats{BasePrice: 100}

// trendAnchor is the fixed start of the synthetic long-run trend window.
var trendAnchor = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// trendWindowDays is the span over which the synthetic series drifts from
// 85% to 100% of the base price.
const trendWindowDays = 5 * 365

// Synthetic generates deterministic quotes and daily history.
type Synthetic struct {
	now func() time.Time
}

// NewSynthetic creates a synthetic provider. now may be nil (time.Now).
func NewSynthetic(now func() time.Time) *Synthetic {
	if now == nil {
		now = time.Now
	}
	return &Synthetic{now: now}
}

// Quote returns a point-in-time snapshot derived from the two most recent
// daily bars plus the reference stats.
func (s *Synthetic) Quote(_ context.Context, ticker string) (domain.Quote, error) {
	stats := statsFor(ticker)
	today := dateOnly(s.now())
	yesterday := today.AddDate(0, 0, -1)

	closeToday := closeOn(ticker, stats.BasePrice, today)
	closePrev := closeOn(ticker, stats.BasePrice, yesterday)

	change := 0.0
	if closePrev != 0 {
		change = (closeToday - closePrev) / closePrev * 100
	}

	return domain.Quote{
		Price:            round2(closeToday),
		ChangePercent:    round2(change),
		MarketCap:        stats.MarketCap,
		FiftyTwoWeekHigh: stats.FiftyTwoWeekHigh,
		FiftyTwoWeekLow:  stats.FiftyTwoWeekLow,
		Volume:           stats.Volume,
	}, nil
}

// History returns one bar per day in [from, to], chronological.
// Returns domain.ErrNoPriceData for an empty or inverted range.
func (s *Synthetic) History(_ context.Context, ticker string, from, to time.Time) ([]domain.PricePoint, error) {
	from = dateOnly(from)
	to = dateOnly(to)
	if to.Before(from) {
		return nil, domain.ErrNoPriceData
	}

	stats := statsFor(ticker)

	var points []domain.PricePoint
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		c := closeOn(ticker, stats.BasePrice, d)
		points = append(points, domain.PricePoint{
			Date:   d,
			Open:   round2(c * 0.99),
			High:   round2(c * 1.01),
			Low:    round2(c * 0.98),
			Close:  round2(c),
			Volume: volumeOn(ticker, d),
		})
	}
	if len(points) == 0 {
		return nil, domain.ErrNoPriceData
	}
	return points, nil
}

func statsFor(ticker string) tickerStats {
	if s, ok := baseStats[ticker]; ok {
		return s
	}
	return defaultStats
}

// closeOn derives the closing price for a day: a slow upward drift from 85%
// of base across the trend window plus a daily noise term within ±3%.
func closeOn(ticker string, base float64, day time.Time) float64 {
	progress := float64(day.Sub(trendAnchor)/(24*time.Hour)) / trendWindowDays
	progress = math.Max(0, math.Min(1, progress))

	noise := unitNoise(ticker, day) // in [-1, 1)
	return base * (0.85 + 0.15*progress) * (1 + noise*0.03)
}

func volumeOn(ticker string, day time.Time) int64 {
	n := unitNoise(ticker+":vol", day)
	return 1_000_000 + int64((n+1)/2*10_000_000)
}

// unitNoise hashes ticker+date into a deterministic value in [-1, 1).
func unitNoise(key string, day time.Time) float64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	_, _ = h.Write([]byte(day.Format("2006-01-02")))
	return float64(h.Sum64()%2_000_000)/1_000_000 - 1
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
