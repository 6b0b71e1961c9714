package domain

import "time"

// SocialPoint is one daily social-buzz observation.
type SocialPoint struct {
	Date           time.Time
	GoogleTrends   int // search interest, 0..100
	RedditMentions int
}

// WSBSignal summarizes r/WallStreetBets chatter for a ticker.
type WSBSignal struct {
	Mentions  int
	Sentiment string // bullish, bearish, neutral
}

// SubredditSignal summarizes engagement on the brand's home subreddit.
// Zero Subreddit means the brand has no tracked community.
type SubredditSignal struct {
	Subreddit       string
	PostCount       int
	TotalEngagement int
	AvgEngagement   int
}

// TrendsSignal summarizes search interest for the brand.
type TrendsSignal struct {
	Interest   int // 0..100
	WeekChange float64
	Direction  string // up, down, flat
}

// SocialSignals is the full social-buzz view for one brand: the current
// snapshot plus a daily history window.
type SocialSignals struct {
	Ticker    string
	WSB       WSBSignal
	Subreddit SubredditSignal
	Trends    TrendsSignal
	History   []SocialPoint
}
