// Package social provides brand social-buzz signals.
//
// Real signal sources (Reddit, search-interest APIs) are external
// collaborators; this provider serves the deterministic synthetic series the
// product falls back to, so every request for the same ticker and window
// yields the same data.
package social

import (
	"context"
	"hash/fnv"
	"math"
	"time"

	"github.com/ayo-labs/copilot/internal/domain"
)

// tickerBuzz seeds the synthetic signals per ticker.
type tickerBuzz struct {
	WSBMentions     int
	WSBSentiment    string
	Subreddit       string
	TotalEngagement int
	Interest        int
	WeekChange      float64
	Direction       string
	Volatility      float64
	Trend           float64
}

// baseBuzz carries the reference snapshot per covered brand. Unknown tickers
// fall back to defaultBuzz.
var baseBuzz = map[string]tickerBuzz{
	"NKE":  {WSBMentions: 2, WSBSentiment: "neutral", Subreddit: "sneakers", TotalEngagement: 4392, Interest: 94, WeekChange: 77.4, Direction: "up", Volatility: 0.15, Trend: 0.8},
	"AAPL": {WSBMentions: 5, WSBSentiment: "bullish", Subreddit: "apple", TotalEngagement: 28489, Interest: 77, WeekChange: 13.2, Direction: "up", Volatility: 0.10, Trend: 0.5},
	"TSLA": {WSBMentions: 12, WSBSentiment: "bullish", Subreddit: "teslamotors", TotalEngagement: 20783, Interest: 65, WeekChange: 0, Direction: "flat", Volatility: 0.25, Trend: 1.2},
	"NFLX": {WSBMentions: 3, WSBSentiment: "neutral", Subreddit: "netflix", TotalEngagement: 5031, Interest: 90, WeekChange: 52.5, Direction: "up", Volatility: 0.20, Trend: 0.6},
}

var defaultBuzz = tickerBuzz{WSBSentiment: "neutral", Interest: 50, Direction: "flat", Volatility: 0.15, Trend: 0.5}

// subredditPostCount is the fixed sample size the engagement totals refer to.
const subredditPostCount = 50

// Synthetic generates deterministic social signals and daily history.
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

// Signals returns the snapshot plus a daily history of days+1 points ending
// today, chronological.
func (s *Synthetic) Signals(_ context.Context, ticker string, days int) (domain.SocialSignals, error) {
	b := buzzFor(ticker)

	sig := domain.SocialSignals{
		Ticker: ticker,
		WSB:    domain.WSBSignal{Mentions: b.WSBMentions, Sentiment: b.WSBSentiment},
		Subreddit: domain.SubredditSignal{
			Subreddit:       b.Subreddit,
			TotalEngagement: b.TotalEngagement,
		},
		Trends: domain.TrendsSignal{Interest: b.Interest, WeekChange: b.WeekChange, Direction: b.Direction},
	}
	if b.Subreddit != "" {
		sig.Subreddit.PostCount = subredditPostCount
		sig.Subreddit.AvgEngagement = b.TotalEngagement / subredditPostCount
	}

	today := dateOnly(s.now())
	for i := days; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		sig.History = append(sig.History, domain.SocialPoint{
			Date:           day,
			GoogleTrends:   trendsOn(ticker, b, day, days, days-i),
			RedditMentions: mentionsOn(ticker, b, day, days, days-i),
		})
	}
	return sig, nil
}

func buzzFor(ticker string) tickerBuzz {
	if b, ok := baseBuzz[ticker]; ok {
		return b
	}
	return defaultBuzz
}

// trendsOn derives the search-interest bar for a day: a ramp from 60% of the
// current interest toward it, shaped by the per-brand trend, plus a noise
// term scaled by the per-brand volatility. Clamped to [0, 100].
func trendsOn(ticker string, b tickerBuzz, day time.Time, days, pos int) int {
	progress := 1.0
	if days > 0 {
		progress = float64(pos) / float64(days)
	}
	base := float64(b.Interest) * (0.6 + 0.4*progress*b.Trend)
	noise := unitNoise(ticker+":trends", day)
	v := math.Round(base + noise*float64(b.Interest)*b.Volatility)
	return int(math.Max(0, math.Min(100, v)))
}

// mentionsOn derives the Reddit-mention bar: a slower ramp with occasional
// spikes, never negative.
func mentionsOn(ticker string, b tickerBuzz, day time.Time, days, pos int) int {
	progress := 1.0
	if days > 0 {
		progress = float64(pos) / float64(days)
	}
	m := float64(b.WSBMentions)
	base := m * (0.5 + 0.5*progress)
	if unitNoise(ticker+":spike", day) > 0.8 {
		base += m * 0.5
	}
	base += unitNoise(ticker+":mentions", day) * m * 0.3
	return int(math.Max(0, math.Round(base)))
}

// unitNoise hashes key+date into a deterministic value in [-1, 1).
func unitNoise(key string, day time.Time) float64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	_, _ = h.Write([]byte(day.Format("2006-01-02")))
	return float64(h.Sum64()%2_000_000)/1_000_000 - 1
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
