// Package postgres opens and supervises the Postgres connection pool.
// Schema and similarity-search functions live in the hosted database;
// this layer only connects to them.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Config holds connection parameters for the Postgres store.
type Config struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// Store wraps the shared *sql.DB handed to the repositories.
type Store struct {
	db *sql.DB
}

// NewStore opens a pgx-backed database/sql pool.
func NewStore(cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("dsn is required")
	}

	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Store{db: db}, nil
}

// DB exposes the underlying pool for the repositories.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the pool.
func (s *Store) Close() {
	_ = s.db.Close()
}

// WaitForReady polls Ping until the store responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}
