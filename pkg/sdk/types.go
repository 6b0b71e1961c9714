package copilot

// Explanation is the generated term explanation.
type Explanation struct {
	Definition      string   `json:"definition"`
	RealTalk        string   `json:"real_talk"`
	WhereItShowsUp  string   `json:"where_it_shows_up,omitempty"`
	WhyItMatters    string   `json:"why_it_matters,omitempty"`
	BrandContext    string   `json:"brand_context,omitempty"`
	CategoryContext string   `json:"category_context,omitempty"`
	RelatedTerms    []string `json:"related_terms,omitempty"`
}

// SourceCounts reports how many hits each retrieval category contributed.
type SourceCounts struct {
	Glossary  int `json:"glossary"`
	Patterns  int `json:"patterns"`
	Playbooks int `json:"playbooks"`
	Brands    int `json:"brands"`
}

// ExplainMetadata accompanies an explanation.
type ExplainMetadata struct {
	BrandDetected  string       `json:"brand_detected"`
	ResponseTimeMS int64        `json:"response_time_ms"`
	SourcesUsed    SourceCounts `json:"sources_used"`
}

// ExplainResult bundles the explanation with its metadata.
type ExplainResult struct {
	Explanation Explanation
	Metadata    ExplainMetadata
}

// Brand is one catalog entry.
type Brand struct {
	Ticker        string  `json:"ticker"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Description   string  `json:"description,omitempty"`
	HypeScore     float64 `json:"hype_score"`
	Confidence    string  `json:"confidence,omitempty"`
	Price         float64 `json:"price"`
	ChangePercent float64 `json:"change_percent"`
	MarketCap     float64 `json:"market_cap"`
}

// BrandDetail is the full brand page payload.
type BrandDetail struct {
	Brand
	FiftyTwoWeekHigh float64 `json:"fifty_two_week_high"`
	FiftyTwoWeekLow  float64 `json:"fifty_two_week_low"`
	Volume           int64   `json:"volume"`
}

// PricePoint is one daily OHLCV bar.
type PricePoint struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// Investment is the return-calculator result.
type Investment struct {
	Ticker        string  `json:"ticker"`
	Amount        float64 `json:"amount"`
	EntryDate     string  `json:"entry_date"`
	EntryPrice    float64 `json:"entry_price"`
	CurrentPrice  float64 `json:"current_price"`
	Shares        float64 `json:"shares"`
	CurrentValue  float64 `json:"current_value"`
	Profit        float64 `json:"profit"`
	ReturnPercent float64 `json:"return_percent"`
	SP500Return   float64 `json:"sp500_return"`
	VsMarket      float64 `json:"vs_market"`
}

// Event is one timeline entry.
type Event struct {
	ID          int64  `json:"id"`
	Date        string `json:"date"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source,omitempty"`
}

// Commentary is the four-part forecast narrative.
type Commentary struct {
	Hook     string `json:"hook"`
	Context  string `json:"context"`
	Question string `json:"question"`
	Stakes   string `json:"stakes"`
}

// ForecastEvent is an upcoming event with commentary.
type ForecastEvent struct {
	ID             int64      `json:"id"`
	Date           string     `json:"date"`
	Title          string     `json:"title"`
	Probability    float64    `json:"probability"`
	ExpectedImpact string     `json:"expected_impact"`
	Commentary     Commentary `json:"commentary"`
}

// Timeline is the full event view for one brand.
type Timeline struct {
	Social   []Event         `json:"social"`
	Key      []Event         `json:"key"`
	Forecast []ForecastEvent `json:"forecast"`
}

// WSBSignal summarizes r/WallStreetBets chatter for a ticker.
type WSBSignal struct {
	Mentions  int    `json:"mentions"`
	Sentiment string `json:"sentiment"`
}

// SubredditSignal summarizes engagement on the brand's home subreddit.
type SubredditSignal struct {
	Subreddit       string `json:"subreddit"`
	PostCount       int    `json:"post_count"`
	TotalEngagement int    `json:"total_engagement"`
	AvgEngagement   int    `json:"avg_engagement"`
}

// TrendsSignal summarizes search interest for the brand.
type TrendsSignal struct {
	Interest   int     `json:"current_interest"`
	WeekChange float64 `json:"week_over_week_change"`
	Direction  string  `json:"trend"`
}

// SocialPoint is one daily social-buzz observation.
type SocialPoint struct {
	Date           string `json:"date"`
	GoogleTrends   int    `json:"google_trends"`
	RedditMentions int    `json:"reddit_mentions"`
}

// SocialSignals is the social-buzz view for one brand.
type SocialSignals struct {
	Ticker         string          `json:"ticker"`
	WallStreetBets WSBSignal       `json:"wallstreetbets"`
	Subreddit      SubredditSignal `json:"subreddit"`
	GoogleTrends   TrendsSignal    `json:"google_trends"`
	History        []SocialPoint   `json:"history"`
}

// Health is the service health report.
type Health struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
