package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema holds every board record as a JSON document keyed by owner,
// collection and key, mirroring the users/{uid}/{collection}/{key} layout
// of the hosted store.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS records (
		user_id    TEXT NOT NULL,
		collection TEXT NOT NULL,
		id         TEXT NOT NULL,
		data       TEXT NOT NULL CHECK (json_valid(data)),
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (user_id, collection, id)
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE COLLATE NOCASE,
		name          TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at    DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
}

// RunMigrations creates the database schema
func RunMigrations(ctx context.Context, db *sql.DB) error {
	return WithTx(ctx, db, func(tx *sql.Tx) error {
		for _, stmt := range schema {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to apply schema: %w", err)
			}
		}
		return nil
	})
}
