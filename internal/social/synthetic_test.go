package social

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/ayo-labs/copilot/internal/domain"
)

func fixedNow() time.Time {
	return time.Date(2025, 8, 1, 15, 30, 0, 0, time.UTC)
}

func TestSignals_Deterministic(t *testing.T) {
	s := NewSynthetic(fixedNow)

	first, err := s.Signals(context.Background(), "NKE", 30)
	if err != nil {
		t.Fatalf("signals: %v", err)
	}
	second, err := s.Signals(context.Background(), "NKE", 30)
	if err != nil {
		t.Fatalf("signals: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("same ticker and window must yield identical signals")
	}
	if len(first.History) != 31 {
		t.Fatalf("expected 31 points for a 30-day window, got %d", len(first.History))
	}

	last := first.History[len(first.History)-1]
	if !last.Date.Equal(time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("history must end today, got %v", last.Date)
	}
	for i, p := range first.History {
		if p.GoogleTrends < 0 || p.GoogleTrends > 100 {
			t.Errorf("point %d: interest %d out of [0, 100]", i, p.GoogleTrends)
		}
		if p.RedditMentions < 0 {
			t.Errorf("point %d: negative mentions %d", i, p.RedditMentions)
		}
		if i > 0 && !first.History[i-1].Date.Before(p.Date) {
			t.Fatalf("history not chronological at %d", i)
		}
	}
}

func TestSignals_SnapshotValues(t *testing.T) {
	s := NewSynthetic(fixedNow)

	sig, err := s.Signals(context.Background(), "NKE", 7)
	if err != nil {
		t.Fatalf("signals: %v", err)
	}

	if sig.WSB.Mentions != 2 || sig.WSB.Sentiment != "neutral" {
		t.Errorf("unexpected WSB signal: %+v", sig.WSB)
	}
	if sig.Subreddit.Subreddit != "sneakers" || sig.Subreddit.TotalEngagement != 4392 {
		t.Errorf("unexpected subreddit signal: %+v", sig.Subreddit)
	}
	if sig.Subreddit.PostCount != 50 || sig.Subreddit.AvgEngagement != 87 {
		t.Errorf("unexpected engagement math: %+v", sig.Subreddit)
	}
	if sig.Trends.Interest != 94 || sig.Trends.Direction != "up" {
		t.Errorf("unexpected trends signal: %+v", sig.Trends)
	}
}

func TestSignals_UnknownTickerFallsBack(t *testing.T) {
	s := NewSynthetic(fixedNow)

	sig, err := s.Signals(context.Background(), "ZZZZ", 7)
	if err != nil {
		t.Fatalf("signals: %v", err)
	}

	if sig.Trends.Interest != 50 || sig.Trends.Direction != "flat" {
		t.Errorf("expected fallback trends, got %+v", sig.Trends)
	}
	if sig.WSB.Sentiment != "neutral" {
		t.Errorf("expected neutral fallback sentiment, got %q", sig.WSB.Sentiment)
	}
	if sig.Subreddit.Subreddit != "" || sig.Subreddit.PostCount != 0 {
		t.Errorf("untracked brand must have empty subreddit signal, got %+v", sig.Subreddit)
	}
}

type countingProvider struct {
	inner *Synthetic
	calls int
}

func (p *countingProvider) Signals(ctx context.Context, ticker string, days int) (domain.SocialSignals, error) {
	p.calls++
	return p.inner.Signals(ctx, ticker, days)
}

func TestCached_ServesFromCacheUntilTTL(t *testing.T) {
	now := fixedNow()
	clock := func() time.Time { return now }

	p := &countingProvider{inner: NewSynthetic(clock)}
	c := NewCached(p, 5*time.Minute, 8, clock)

	if _, err := c.Signals(context.Background(), "NKE", 30); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if _, err := c.Signals(context.Background(), "NKE", 30); err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if p.calls != 1 {
		t.Errorf("expected 1 inner call within TTL, got %d", p.calls)
	}

	if _, err := c.Signals(context.Background(), "NKE", 90); err != nil {
		t.Fatalf("different window: %v", err)
	}
	if p.calls != 2 {
		t.Errorf("different window must be a separate entry, calls=%d", p.calls)
	}

	now = now.Add(6 * time.Minute)
	if _, err := c.Signals(context.Background(), "NKE", 30); err != nil {
		t.Fatalf("post-TTL fetch: %v", err)
	}
	if p.calls != 3 {
		t.Errorf("expected refetch after TTL, calls=%d", p.calls)
	}
}
