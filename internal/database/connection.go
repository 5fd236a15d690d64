// Package database verifies the Postgres dependency is able to serve
// queries, not just accept TCP connections.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// pingTimeout bounds a single liveness probe.
const pingTimeout = 5 * time.Second

// Config holds database connection configuration.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string //nolint:gosec // DB connection config
	Database string
	SSLMode  string
}

// Connection wraps the database connection.
type Connection struct {
	DB *sql.DB
}

// NewConnection opens a database connection and verifies it with a ping.
func NewConnection(ctx context.Context, cfg *Config) (*Connection, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if pingErr := db.PingContext(pingCtx); pingErr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", pingErr)
	}

	return &Connection{DB: db}, nil
}

// Close closes the database connection.
func (c *Connection) Close() error {
	return c.DB.Close()
}
