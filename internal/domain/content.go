package domain

import "encoding/json"

// GlossaryEntry is a scored glossary hit from similarity search.
type GlossaryEntry struct {
	ID      int64
	Term    string
	Aliases []string
	Content json.RawMessage
	Score   float64
}

// PatternEntry is a scored market event pattern hit.
type PatternEntry struct {
	ID      int64
	Pattern string
	Content json.RawMessage
	Score   float64
}

// PlaybookEntry is a scored category playbook section hit.
type PlaybookEntry struct {
	ID       int64
	Category string
	Section  string
	Content  json.RawMessage
	Score    float64
}

// BrandChunk is a scored brand-specific context hit.
type BrandChunk struct {
	ID      int64
	Brand   string
	Section string
	Content json.RawMessage
	Score   float64
}

// RetrievalResult holds the four independent similarity-search result lists.
// Each list is sorted descending by score and already threshold-filtered.
type RetrievalResult struct {
	Glossary  []GlossaryEntry
	Patterns  []PatternEntry
	Playbooks []PlaybookEntry
	Brands    []BrandChunk
}

// CategoryParams is one (threshold, limit) pair for a retrieval category.
type CategoryParams struct {
	Threshold float64
	Limit     int
}

// RetrievalOptions parameterizes the four similarity-search categories.
type RetrievalOptions struct {
	Glossary  CategoryParams
	Patterns  CategoryParams
	Playbooks CategoryParams
	Brand     CategoryParams
}

// DefaultRetrievalOptions returns the reference thresholds and limits.
// The brand category runs 0.1 looser because brand-context coverage is sparser.
func DefaultRetrievalOptions() RetrievalOptions {
	return RetrievalOptions{
		Glossary:  CategoryParams{Threshold: 0.7, Limit: 5},
		Patterns:  CategoryParams{Threshold: 0.7, Limit: 3},
		Playbooks: CategoryParams{Threshold: 0.7, Limit: 3},
		Brand:     CategoryParams{Threshold: 0.6, Limit: 4},
	}
}
