// Package event reads brand timeline tables: social buzz, key developments,
// and forecast events.
package event

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ayo-labs/copilot/internal/domain"
)

// Repo reads event tables from Postgres.
type Repo struct {
	db *sql.DB
}

// New creates an event repository.
func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// Social returns social-buzz events for a ticker, newest first.
func (r *Repo) Social(ctx context.Context, ticker string) ([]domain.Event, error) {
	return r.query(ctx, `
		SELECT id, ticker, date, title, COALESCE(description, ''), COALESCE(source, '')
		FROM social_events
		WHERE ticker = $1
		ORDER BY date DESC
	`, ticker, false)
}

// Key returns key developments for a ticker, newest first.
func (r *Repo) Key(ctx context.Context, ticker string) ([]domain.Event, error) {
	return r.query(ctx, `
		SELECT id, ticker, date, title, COALESCE(description, ''), COALESCE(source, '')
		FROM key_events
		WHERE ticker = $1
		ORDER BY date DESC
	`, ticker, false)
}

// Forecast returns upcoming events for a ticker, soonest first, with
// probability and expected impact.
func (r *Repo) Forecast(ctx context.Context, ticker string) ([]domain.Event, error) {
	return r.query(ctx, `
		SELECT id, ticker, date, title, COALESCE(probability, 0), COALESCE(expected_impact, '')
		FROM forecast_events
		WHERE ticker = $1
		ORDER BY date ASC
	`, ticker, true)
}

func (r *Repo) query(ctx context.Context, q, ticker string, forecast bool) ([]domain.Event, error) {
	rows, err := r.db.QueryContext(ctx, q, ticker)
	if err != nil {
		return nil, fmt.Errorf("query events for %s: %w", ticker, err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		if forecast {
			err = rows.Scan(&e.ID, &e.Ticker, &e.Date, &e.Title, &e.Probability, &e.ExpectedImpact)
		} else {
			err = rows.Scan(&e.ID, &e.Ticker, &e.Date, &e.Title, &e.Description, &e.Source)
		}
		if err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event rows: %w", err)
	}
	return events, nil
}
