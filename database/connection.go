package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// DB wraps the pgx connection pool shared by repositories
type DB struct {
	*pgxpool.Pool
}

// NewConnection opens a pool against databaseURL and verifies it with a ping.
// Every session runs in UTC so purchase and repair timestamps compare cleanly.
func NewConnection(ctx context.Context, databaseURL string) (*DB, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	config.ConnConfig.RuntimeParams["timezone"] = "UTC"

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.WithFields(log.Fields{
		"host":     config.ConnConfig.Host,
		"database": config.ConnConfig.Database,
		"maxConns": config.MaxConns,
	}).Info("Database connection established")

	return &DB{Pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	db.Pool.Close()
}
