// Package retrieve runs the four-way similarity-search fan-out that grounds
// term explanations.
package retrieve

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ayo-labs/copilot/internal/domain"
	"github.com/ayo-labs/copilot/internal/logger"
)

// Service retrieves scored context for a query term.
type Service struct {
	embed         Embedder
	content       ContentSearcher
	searchTimeout time.Duration
}

// New creates a retrieval service. searchTimeout bounds each of the four
// similarity searches individually; <= 0 disables the per-search deadline.
func New(embed Embedder, content ContentSearcher, searchTimeout time.Duration) *Service {
	return &Service{embed: embed, content: content, searchTimeout: searchTimeout}
}

// Retrieve embeds the query and runs the four similarity searches
// concurrently. The brand category is skipped (empty list) when brand is "".
// A failing category is logged and degrades to an empty list; the join always
// waits for all four. An embedding failure fails the whole retrieval.
func (s *Service) Retrieve(
	ctx context.Context, query, brand string, opts domain.RetrievalOptions,
) (domain.RetrievalResult, error) {
	embResult, err := s.embed.Embed(ctx, query)
	if err != nil {
		return domain.RetrievalResult{}, fmt.Errorf("embed query: %w", err)
	}
	vec := embResult.Embedding

	log := logger.FromContext(ctx)

	var (
		wg  sync.WaitGroup
		res domain.RetrievalResult
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		entries, err := withTimeout(ctx, s.searchTimeout, func(ctx context.Context) ([]domain.GlossaryEntry, error) {
			return s.content.MatchGlossary(ctx, vec, opts.Glossary.Threshold, opts.Glossary.Limit)
		})
		if err != nil {
			log.Warn("Glossary search failed", zap.Error(err))
			return
		}
		res.Glossary = entries
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		entries, err := withTimeout(ctx, s.searchTimeout, func(ctx context.Context) ([]domain.PatternEntry, error) {
			return s.content.MatchPatterns(ctx, vec, opts.Patterns.Threshold, opts.Patterns.Limit)
		})
		if err != nil {
			log.Warn("Pattern search failed", zap.Error(err))
			return
		}
		res.Patterns = entries
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		entries, err := withTimeout(ctx, s.searchTimeout, func(ctx context.Context) ([]domain.PlaybookEntry, error) {
			return s.content.MatchPlaybooks(ctx, vec, opts.Playbooks.Threshold, opts.Playbooks.Limit)
		})
		if err != nil {
			log.Warn("Playbook search failed", zap.Error(err))
			return
		}
		res.Playbooks = entries
	}()

	if brand != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			chunks, err := withTimeout(ctx, s.searchTimeout, func(ctx context.Context) ([]domain.BrandChunk, error) {
				return s.content.MatchBrand(ctx, vec, brand, opts.Brand.Threshold, opts.Brand.Limit)
			})
			if err != nil {
				log.Warn("Brand context search failed", zap.String("brand", brand), zap.Error(err))
				return
			}
			res.Brands = chunks
		}()
	}

	wg.Wait()
	return res, nil
}

// withTimeout bounds one search with the per-search deadline while still
// propagating caller cancellation.
func withTimeout[T any](
	ctx context.Context, timeout time.Duration, fn func(context.Context) ([]T, error),
) ([]T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return fn(ctx)
}
