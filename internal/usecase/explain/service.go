// Package explain orchestrates the explanation pipeline: brand detection,
// context retrieval, assembly, generation, and the usage-log side effect.
package explain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ayo-labs/copilot/internal/domain"
	"github.com/ayo-labs/copilot/internal/logger"
)

// SourceCounts reports how many hits each retrieval category contributed.
type SourceCounts struct {
	Glossary  int `json:"glossary"`
	Patterns  int `json:"patterns"`
	Playbooks int `json:"playbooks"`
	Brands    int `json:"brands"`
}

// Result is the full outcome of one explain request.
type Result struct {
	Explanation    domain.Explanation
	BrandDetected  string
	ResponseTimeMS int64
	Sources        SourceCounts
}

// Service runs the explanation pipeline.
type Service struct {
	detector  BrandDetector
	retriever Retriever
	completer Completer
	usage     UsageWriter
	opts      domain.RetrievalOptions
	now       func() time.Time
}

// New creates an explain service. usage may be nil (no logging store).
// now may be nil (time.Now).
func New(
	detector BrandDetector,
	retriever Retriever,
	completer Completer,
	usage UsageWriter,
	opts domain.RetrievalOptions,
	now func() time.Time,
) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		detector:  detector,
		retriever: retriever,
		completer: completer,
		usage:     usage,
		opts:      opts,
		now:       now,
	}
}

// Explain answers a term query. An explicit brand hint short-circuits
// detection. Errors from the embedding provider, the model, or response
// parsing propagate to the caller; only per-category search failures are
// absorbed upstream.
func (s *Service) Explain(ctx context.Context, term, brandHint string) (Result, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return Result{}, fmt.Errorf("%w: term is required", domain.ErrValidation)
	}

	start := s.now()

	brand := brandHint
	if brand == "" {
		detected, err := s.detector.Detect(ctx, term)
		if err != nil {
			return Result{}, fmt.Errorf("detect brand: %w", err)
		}
		brand = detected
	}

	retrieved, err := s.retriever.Retrieve(ctx, term, brand, s.opts)
	if err != nil {
		return Result{}, fmt.Errorf("retrieve context: %w", err)
	}

	assembled := domain.Assemble(term, retrieved, brand)

	raw, err := s.completer.Complete(ctx, buildPrompt(assembled))
	if err != nil {
		return Result{}, fmt.Errorf("generate explanation: %w", err)
	}

	expl, err := parseExplanation(raw)
	if err != nil {
		return Result{}, err
	}

	elapsed := s.now().Sub(start).Milliseconds()

	s.logUsage(ctx, term, brand, elapsed)

	return Result{
		Explanation:    expl,
		BrandDetected:  brand,
		ResponseTimeMS: elapsed,
		Sources: SourceCounts{
			Glossary:  len(retrieved.Glossary),
			Patterns:  len(retrieved.Patterns),
			Playbooks: len(retrieved.Playbooks),
			Brands:    len(retrieved.Brands),
		},
	}, nil
}

// logUsage appends the usage row best-effort; a failed write never fails the
// request.
func (s *Service) logUsage(ctx context.Context, term, brand string, elapsedMS int64) {
	if s.usage == nil {
		return
	}
	entry := domain.UsageEntry{
		Query:          term,
		BrandDetected:  brand,
		ResponseTimeMS: elapsedMS,
	}
	if err := s.usage.Append(ctx, entry); err != nil {
		logger.FromContext(ctx).Warn("Failed to append usage log", zap.Error(err))
	}
}
