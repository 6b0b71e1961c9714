package retrieve

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ayo-labs/copilot/internal/domain"
)

type mockEmbedder struct {
	vec []float32
	err error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec, TotalTokens: 3}, nil
}

type mockContent struct {
	mu sync.Mutex

	glossary  []domain.GlossaryEntry
	patterns  []domain.PatternEntry
	playbooks []domain.PlaybookEntry
	brands    []domain.BrandChunk

	glossaryErr  error
	patternsErr  error
	playbooksErr error
	brandsErr    error

	brandCalls int
	brandArg   string
}

func (m *mockContent) MatchGlossary(_ context.Context, _ []float32, _ float64, _ int) ([]domain.GlossaryEntry, error) {
	return m.glossary, m.glossaryErr
}

func (m *mockContent) MatchPatterns(_ context.Context, _ []float32, _ float64, _ int) ([]domain.PatternEntry, error) {
	return m.patterns, m.patternsErr
}

func (m *mockContent) MatchPlaybooks(_ context.Context, _ []float32, _ float64, _ int) ([]domain.PlaybookEntry, error) {
	return m.playbooks, m.playbooksErr
}

func (m *mockContent) MatchBrand(_ context.Context, _ []float32, brand string, _ float64, _ int) ([]domain.BrandChunk, error) {
	m.mu.Lock()
	m.brandCalls++
	m.brandArg = brand
	m.mu.Unlock()
	return m.brands, m.brandsErr
}

func TestRetrieve_AllCategories(t *testing.T) {
	content := &mockContent{
		glossary:  []domain.GlossaryEntry{{Term: "Gross Margin", Score: 0.91}},
		patterns:  []domain.PatternEntry{{Pattern: "earnings beat", Score: 0.8}},
		playbooks: []domain.PlaybookEntry{{Category: "apparel", Section: "margins", Score: 0.75}},
		brands:    []domain.BrandChunk{{Brand: "Nike", Section: "overview", Score: 0.7}},
	}
	svc := New(&mockEmbedder{vec: []float32{0.1}}, content, time.Second)

	res, err := svc.Retrieve(context.Background(), "gross margin", "Nike", domain.DefaultRetrievalOptions())
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}

	if len(res.Glossary) != 1 || len(res.Patterns) != 1 || len(res.Playbooks) != 1 || len(res.Brands) != 1 {
		t.Errorf("expected one hit per category, got %d/%d/%d/%d",
			len(res.Glossary), len(res.Patterns), len(res.Playbooks), len(res.Brands))
	}
	if content.brandArg != "Nike" {
		t.Errorf("brand search received %q, want Nike", content.brandArg)
	}
}

func TestRetrieve_NoBrandSkipsBrandSearch(t *testing.T) {
	content := &mockContent{
		glossary: []domain.GlossaryEntry{{Term: "EBITDA", Score: 0.88}},
		brands:   []domain.BrandChunk{{Brand: "Nike"}},
	}
	svc := New(&mockEmbedder{vec: []float32{0.1}}, content, time.Second)

	res, err := svc.Retrieve(context.Background(), "ebitda", "", domain.DefaultRetrievalOptions())
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}

	if content.brandCalls != 0 {
		t.Errorf("brand search must be skipped without a brand, calls=%d", content.brandCalls)
	}
	if len(res.Brands) != 0 {
		t.Errorf("expected empty brand context, got %d", len(res.Brands))
	}
}

func TestRetrieve_CategoryFailureIsIsolated(t *testing.T) {
	content := &mockContent{
		glossary:    []domain.GlossaryEntry{{Term: "Gross Margin", Score: 0.9}},
		playbooks:   []domain.PlaybookEntry{{Category: "apparel", Score: 0.8}},
		brands:      []domain.BrandChunk{{Brand: "Nike", Score: 0.7}},
		patternsErr: errors.New("patterns table unavailable"),
	}
	svc := New(&mockEmbedder{vec: []float32{0.1}}, content, time.Second)

	res, err := svc.Retrieve(context.Background(), "gross margin", "Nike", domain.DefaultRetrievalOptions())
	if err != nil {
		t.Fatalf("one failing category must not fail retrieval: %v", err)
	}

	if len(res.Patterns) != 0 {
		t.Errorf("failed category must degrade to empty, got %d", len(res.Patterns))
	}
	if len(res.Glossary) != 1 || len(res.Playbooks) != 1 || len(res.Brands) != 1 {
		t.Errorf("other categories must still return, got %d/%d/%d",
			len(res.Glossary), len(res.Playbooks), len(res.Brands))
	}
}

func TestRetrieve_EmbeddingFailureFailsWhole(t *testing.T) {
	content := &mockContent{}
	svc := New(&mockEmbedder{err: domain.ErrProvider}, content, time.Second)

	_, err := svc.Retrieve(context.Background(), "gross margin", "Nike", domain.DefaultRetrievalOptions())
	if !errors.Is(err, domain.ErrProvider) {
		t.Errorf("expected ErrProvider, got %v", err)
	}
}

type slowContent struct {
	mockContent
	delay time.Duration
}

func (s *slowContent) MatchGlossary(ctx context.Context, _ []float32, _ float64, _ int) ([]domain.GlossaryEntry, error) {
	select {
	case <-time.After(s.delay):
		return []domain.GlossaryEntry{{Term: "late"}}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestRetrieve_SearchTimeoutCancelsSlowCategory(t *testing.T) {
	content := &slowContent{delay: time.Second}
	content.patterns = []domain.PatternEntry{{Pattern: "fast", Score: 0.9}}
	svc := New(&mockEmbedder{vec: []float32{0.1}}, content, 10*time.Millisecond)

	res, err := svc.Retrieve(context.Background(), "gross margin", "", domain.DefaultRetrievalOptions())
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}

	if len(res.Glossary) != 0 {
		t.Error("timed-out category must degrade to empty")
	}
	if len(res.Patterns) != 1 {
		t.Error("fast category must still return")
	}
}
