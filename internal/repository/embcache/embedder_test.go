package embcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ayo-labs/copilot/internal/db"
	"github.com/ayo-labs/copilot/internal/domain"
)

type mockStore struct {
	data    map[string][]byte
	lastTTL time.Duration
	getErr  error
	setErr  error
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string][]byte)}
}

func (m *mockStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.lastTTL = ttl
	return nil
}

type mockEmbedder struct {
	vec   []float32
	err   error
	calls int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec, TotalTokens: 7}, nil
}

func TestCachedEmbedder_MissThenHit(t *testing.T) {
	store := newMockStore()
	inner := &mockEmbedder{vec: []float32{0.5, -1.25, 3}}
	c := New(inner, store, time.Hour, nil, zap.NewNop())

	first, err := c.Embed(context.Background(), "gross margin")
	if err != nil {
		t.Fatalf("first embed: %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("expected 1 inner call, got %d", inner.calls)
	}
	if first.TotalTokens != 7 {
		t.Errorf("miss should report real token usage, got %d", first.TotalTokens)
	}
	if store.lastTTL != time.Hour {
		t.Errorf("expected TTL to be set on write, got %v", store.lastTTL)
	}

	second, err := c.Embed(context.Background(), "gross margin")
	if err != nil {
		t.Fatalf("second embed: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("hit must not call inner embedder, calls=%d", inner.calls)
	}
	if second.TotalTokens != 0 {
		t.Errorf("hit should report zero tokens, got %d", second.TotalTokens)
	}
	for i, v := range second.Embedding {
		if v != inner.vec[i] {
			t.Fatalf("cached vec[%d] = %f, want %f", i, v, inner.vec[i])
		}
	}
}

func TestCachedEmbedder_BatchGoesThroughCache(t *testing.T) {
	store := newMockStore()
	inner := &mockEmbedder{vec: []float32{1, 2}}
	c := New(inner, store, time.Hour, nil, zap.NewNop())

	if _, err := c.Embed(context.Background(), "gross margin"); err != nil {
		t.Fatalf("prime cache: %v", err)
	}

	res, err := c.BatchEmbed(context.Background(), []string{"gross margin", "ebitda"})
	if err != nil {
		t.Fatalf("batch embed: %v", err)
	}
	if len(res.Embeddings) != 2 {
		t.Fatalf("expected 2 embeddings, got %d", len(res.Embeddings))
	}
	if inner.calls != 2 {
		t.Errorf("cached text must not hit the provider again, calls=%d", inner.calls)
	}
	if res.TotalTokens != 7 {
		t.Errorf("only the miss should report token usage, got %d", res.TotalTokens)
	}
}

func TestCachedEmbedder_StoreFailureFallsThrough(t *testing.T) {
	store := newMockStore()
	store.getErr = errors.New("redis down")
	store.setErr = errors.New("redis down")
	inner := &mockEmbedder{vec: []float32{1}}
	c := New(inner, store, time.Hour, nil, zap.NewNop())

	res, err := c.Embed(context.Background(), "ebitda")
	if err != nil {
		t.Fatalf("cache failure must not fail the embed: %v", err)
	}
	if len(res.Embedding) != 1 {
		t.Fatal("expected inner result despite cache failure")
	}
}

func TestCachedEmbedder_InnerErrorPropagates(t *testing.T) {
	store := newMockStore()
	inner := &mockEmbedder{err: domain.ErrProvider}
	c := New(inner, store, time.Hour, nil, zap.NewNop())

	_, err := c.Embed(context.Background(), "ebitda")
	if !errors.Is(err, domain.ErrProvider) {
		t.Errorf("expected ErrProvider, got %v", err)
	}
}

func TestCachedEmbedder_CorruptCacheEntryIsMiss(t *testing.T) {
	store := newMockStore()
	inner := &mockEmbedder{vec: []float32{2}}
	c := New(inner, store, time.Hour, nil, zap.NewNop())

	store.data[c.cacheKey("ebitda")] = []byte{1, 2, 3} // not a multiple of 4

	res, err := c.Embed(context.Background(), "ebitda")
	if err != nil {
		t.Fatalf("corrupt entry must degrade to miss: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("expected inner call on corrupt entry, calls=%d", inner.calls)
	}
	if res.Embedding[0] != 2 {
		t.Error("expected fresh embedding from inner")
	}
}
