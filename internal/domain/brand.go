package domain

import "time"

// Brand is one roster row used for brand detection.
type Brand struct {
	ID       int64
	Name     string
	Ticker   string
	Category string
	OneLiner string
}

// BrandProfile is the brand-detail metadata row.
type BrandProfile struct {
	Ticker      string
	Name        string
	Category    string
	Description string
	HypeScore   float64
	Confidence  string
}

// Quote is a point-in-time market snapshot for a ticker.
type Quote struct {
	Price            float64
	ChangePercent    float64
	MarketCap        float64
	FiftyTwoWeekHigh float64
	FiftyTwoWeekLow  float64
	Volume           int64
}

// PricePoint is one daily OHLCV bar.
type PricePoint struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// InvestmentResult is the toy return calculation for "what if I had invested".
type InvestmentResult struct {
	Ticker        string
	Amount        float64
	EntryDate     time.Time
	EntryPrice    float64
	CurrentPrice  float64
	Shares        float64
	CurrentValue  float64
	Profit        float64
	ReturnPercent float64
	SP500Return   float64
	VsMarket      float64
}

// Event is one brand timeline entry (social buzz, key development, or forecast).
type Event struct {
	ID             int64
	Ticker         string
	Date           time.Time
	Title          string
	Description    string
	Source         string
	Probability    float64
	ExpectedImpact string
}
