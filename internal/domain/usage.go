package domain

// UsageEntry is one append-only API usage log row.
type UsageEntry struct {
	Query          string
	BrandDetected  string
	ResponseTimeMS int64
}
