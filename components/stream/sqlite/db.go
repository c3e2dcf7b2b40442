package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS activity (
    id TEXT PRIMARY KEY,
    app TEXT NOT NULL DEFAULT '',
    type TEXT NOT NULL,
    actor TEXT NOT NULL DEFAULT '',
    affected_user TEXT NOT NULL,
    timestamp INTEGER NOT NULL,
    subject TEXT NOT NULL DEFAULT '',
    subject_full TEXT NOT NULL DEFAULT '',
    subject_trimmed TEXT NOT NULL DEFAULT '',
    subject_markup_full TEXT NOT NULL DEFAULT '',
    subject_markup_trimmed TEXT NOT NULL DEFAULT '',
    message TEXT NOT NULL DEFAULT '',
    message_full TEXT NOT NULL DEFAULT '',
    message_trimmed TEXT NOT NULL DEFAULT '',
    message_markup_full TEXT NOT NULL DEFAULT '',
    message_markup_trimmed TEXT NOT NULL DEFAULT '',
    link TEXT NOT NULL DEFAULT '',
    file TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_activity_user_time ON activity(affected_user, timestamp DESC);
`

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New opens the database and applies the activity schema.
func New(ctx context.Context, dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// :memory: databases are per-connection.
	db.SetMaxOpenConns(1)
	wrapped := &DB{db}
	if err := wrapped.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return wrapped, nil
}

// Migrate creates the activity table when missing.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
