// Package content implements pgvector similarity search over the four RAG
// content tables: glossary, event patterns, category playbooks, and
// brand-specific chunks.
package content

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ayo-labs/copilot/internal/domain"
)

// Repo runs similarity searches against Postgres.
type Repo struct {
	db *sql.DB
}

// New creates a content repository.
func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// MatchGlossary returns glossary entries scoring at or above threshold,
// best first.
func (r *Repo) MatchGlossary(
	ctx context.Context, embedding []float32, threshold float64, limit int,
) ([]domain.GlossaryEntry, error) {
	vec := formatVector(embedding)

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, term, to_jsonb(aliases), content, 1 - (embedding <=> $1) AS similarity
		FROM glossary_embeddings
		WHERE 1 - (embedding <=> $1) >= $2
		ORDER BY embedding <=> $1
		LIMIT $3
	`, vec, threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("match glossary: %w", err)
	}
	defer rows.Close()

	var entries []domain.GlossaryEntry
	for rows.Next() {
		var e domain.GlossaryEntry
		var aliases []byte
		if err := rows.Scan(&e.ID, &e.Term, &aliases, &e.Content, &e.Score); err != nil {
			return nil, fmt.Errorf("scan glossary row: %w", err)
		}
		if len(aliases) > 0 {
			if err := json.Unmarshal(aliases, &e.Aliases); err != nil {
				return nil, fmt.Errorf("parse glossary aliases: %w", err)
			}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate glossary rows: %w", err)
	}
	return entries, nil
}

// MatchPatterns returns event-pattern entries scoring at or above threshold.
func (r *Repo) MatchPatterns(
	ctx context.Context, embedding []float32, threshold float64, limit int,
) ([]domain.PatternEntry, error) {
	vec := formatVector(embedding)

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, pattern, content, 1 - (embedding <=> $1) AS similarity
		FROM pattern_embeddings
		WHERE 1 - (embedding <=> $1) >= $2
		ORDER BY embedding <=> $1
		LIMIT $3
	`, vec, threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("match patterns: %w", err)
	}
	defer rows.Close()

	var entries []domain.PatternEntry
	for rows.Next() {
		var e domain.PatternEntry
		if err := rows.Scan(&e.ID, &e.Pattern, &e.Content, &e.Score); err != nil {
			return nil, fmt.Errorf("scan pattern row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pattern rows: %w", err)
	}
	return entries, nil
}

// MatchPlaybooks returns category-playbook sections scoring at or above threshold.
func (r *Repo) MatchPlaybooks(
	ctx context.Context, embedding []float32, threshold float64, limit int,
) ([]domain.PlaybookEntry, error) {
	vec := formatVector(embedding)

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, category, section, content, 1 - (embedding <=> $1) AS similarity
		FROM playbook_embeddings
		WHERE 1 - (embedding <=> $1) >= $2
		ORDER BY embedding <=> $1
		LIMIT $3
	`, vec, threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("match playbooks: %w", err)
	}
	defer rows.Close()

	var entries []domain.PlaybookEntry
	for rows.Next() {
		var e domain.PlaybookEntry
		if err := rows.Scan(&e.ID, &e.Category, &e.Section, &e.Content, &e.Score); err != nil {
			return nil, fmt.Errorf("scan playbook row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playbook rows: %w", err)
	}
	return entries, nil
}

// MatchBrand returns brand-specific chunks for one brand scoring at or above
// threshold.
func (r *Repo) MatchBrand(
	ctx context.Context, embedding []float32, brand string, threshold float64, limit int,
) ([]domain.BrandChunk, error) {
	vec := formatVector(embedding)

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, brand, section, content, 1 - (embedding <=> $1) AS similarity
		FROM brand_embeddings
		WHERE brand = $2 AND 1 - (embedding <=> $1) >= $3
		ORDER BY embedding <=> $1
		LIMIT $4
	`, vec, brand, threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("match brand context: %w", err)
	}
	defer rows.Close()

	var chunks []domain.BrandChunk
	for rows.Next() {
		var c domain.BrandChunk
		if err := rows.Scan(&c.ID, &c.Brand, &c.Section, &c.Content, &c.Score); err != nil {
			return nil, fmt.Errorf("scan brand chunk row: %w", err)
		}
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate brand chunk rows: %w", err)
	}
	return chunks, nil
}

// formatVector renders an embedding as a pgvector text literal: [0.1,0.2,...].
func formatVector(v []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(f), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
