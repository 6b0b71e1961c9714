package retrieve

import (
	"context"

	"github.com/ayo-labs/copilot/internal/domain"
)

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// ContentSearcher runs the four similarity-search categories.
type ContentSearcher interface {
	MatchGlossary(ctx context.Context, embedding []float32, threshold float64, limit int) ([]domain.GlossaryEntry, error)
	MatchPatterns(ctx context.Context, embedding []float32, threshold float64, limit int) ([]domain.PatternEntry, error)
	MatchPlaybooks(ctx context.Context, embedding []float32, threshold float64, limit int) ([]domain.PlaybookEntry, error)
	MatchBrand(ctx context.Context, embedding []float32, brand string, threshold float64, limit int) ([]domain.BrandChunk, error)
}
