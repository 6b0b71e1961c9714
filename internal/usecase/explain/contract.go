package explain

import (
	"context"

	"github.com/ayo-labs/copilot/internal/domain"
)

// BrandDetector finds a brand mentioned in the query text.
type BrandDetector interface {
	Detect(ctx context.Context, query string) (string, error)
}

// Retriever runs the similarity-search fan-out.
type Retriever interface {
	Retrieve(ctx context.Context, query, brand string, opts domain.RetrievalOptions) (domain.RetrievalResult, error)
}

// Completer generates one chat completion for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// UsageWriter appends usage-log rows.
type UsageWriter interface {
	Append(ctx context.Context, entry domain.UsageEntry) error
}
