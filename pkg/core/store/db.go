// Package store holds the pgvector-backed document index adapter. The index
// itself is externally owned; this package only reads from it.
package store

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pgx pool from the DATABASE_URL environment variable.
// Callers own the pool lifecycle and inject it where needed.
func Connect(ctx context.Context) (*pgxpool.Pool, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}

	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	return pgxpool.NewWithConfig(ctx, config)
}
