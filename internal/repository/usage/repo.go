// Package usage appends API usage log rows.
package usage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ayo-labs/copilot/internal/domain"
)

// Repo writes the append-only api_usage table.
type Repo struct {
	db *sql.DB
}

// New creates a usage repository.
func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// Append writes one usage row. brand_detected is NULL when no brand was found.
func (r *Repo) Append(ctx context.Context, entry domain.UsageEntry) error {
	var brand sql.NullString
	if entry.BrandDetected != "" {
		brand = sql.NullString{String: entry.BrandDetected, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO api_usage (query, brand_detected, response_time_ms)
		VALUES ($1, $2, $3)
	`, entry.Query, brand, entry.ResponseTimeMS)
	if err != nil {
		return fmt.Errorf("insert usage row: %w", err)
	}
	return nil
}
