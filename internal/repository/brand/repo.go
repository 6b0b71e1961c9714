// Package brand reads the brand roster and per-brand metadata.
package brand

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ayo-labs/copilot/internal/domain"
)

// Repo reads brand tables from Postgres.
type Repo struct {
	db *sql.DB
}

// New creates a brand repository.
func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// Roster returns all brands in deterministic order. Detection relies on
// this ordering for its first-match-wins policy.
func (r *Repo) Roster(ctx context.Context) ([]domain.Brand, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, ticker, category, one_liner
		FROM brands
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query brand roster: %w", err)
	}
	defer rows.Close()

	var brands []domain.Brand
	for rows.Next() {
		var b domain.Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.Ticker, &b.Category, &b.OneLiner); err != nil {
			return nil, fmt.Errorf("scan brand row: %w", err)
		}
		brands = append(brands, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate brand rows: %w", err)
	}
	return brands, nil
}

// Profiles returns brand-detail metadata ordered by name.
func (r *Repo) Profiles(ctx context.Context) ([]domain.BrandProfile, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ticker, name, category, COALESCE(description, ''),
		       COALESCE(current_hype_score, 0), COALESCE(confidence, '')
		FROM brand_metadata
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("query brand profiles: %w", err)
	}
	defer rows.Close()

	var profiles []domain.BrandProfile
	for rows.Next() {
		var p domain.BrandProfile
		if err := rows.Scan(&p.Ticker, &p.Name, &p.Category, &p.Description, &p.HypeScore, &p.Confidence); err != nil {
			return nil, fmt.Errorf("scan brand profile row: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate brand profile rows: %w", err)
	}
	return profiles, nil
}

// ProfileByTicker returns one brand profile or domain.ErrBrandNotFound.
func (r *Repo) ProfileByTicker(ctx context.Context, ticker string) (domain.BrandProfile, error) {
	var p domain.BrandProfile
	err := r.db.QueryRowContext(ctx, `
		SELECT ticker, name, category, COALESCE(description, ''),
		       COALESCE(current_hype_score, 0), COALESCE(confidence, '')
		FROM brand_metadata
		WHERE ticker = $1
	`, ticker).Scan(&p.Ticker, &p.Name, &p.Category, &p.Description, &p.HypeScore, &p.Confidence)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.BrandProfile{}, domain.ErrBrandNotFound
	}
	if err != nil {
		return domain.BrandProfile{}, fmt.Errorf("query brand profile %s: %w", ticker, err)
	}
	return p, nil
}
