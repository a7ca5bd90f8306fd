package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// migrations run in order exactly once; executed statements are recorded in
// the migration table and must never be edited afterwards.
var migrations = []string{
	`CREATE TABLE notes (
    id UUID PRIMARY KEY,
    user_id TEXT NOT NULL,
    title TEXT,
    content TEXT NOT NULL,
    note_type TEXT NOT NULL,
    source_url TEXT,
    tags TEXT[] NOT NULL DEFAULT '{}',
    ai_analysis JSONB NOT NULL DEFAULT '{}',
    metadata JSONB NOT NULL DEFAULT '{}',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE INDEX idx_notes_user_created ON notes (user_id, created_at DESC)`,
	`CREATE TABLE video_notes (
    id UUID PRIMARY KEY,
    note_id UUID NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
    youtube_id VARCHAR(11) NOT NULL,
    title TEXT NOT NULL,
    channel_name TEXT,
    transcript TEXT,
    thumbnail_url TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE UNIQUE INDEX idx_video_notes_note ON video_notes (note_id)`,
}

// Migrate brings the schema up to date.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS migration
("id" SERIAL PRIMARY KEY, "query" TEXT)`)
	if err != nil {
		return err
	}

	var existing []string
	if err := db.SelectContext(ctx, &existing, `SELECT query FROM migration ORDER BY id`); err != nil {
		return err
	}

	missing, err := compareMigrations(migrations, existing)
	if err != nil {
		return err
	}

	for _, query := range missing {
		if _, err := db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
		if _, err := db.ExecContext(ctx, `INSERT INTO migration (query) VALUES ($1)`, query); err != nil {
			return err
		}
	}

	return nil
}

func compareMigrations(wanted, existing []string) ([]string, error) {
	if len(wanted) < len(existing) {
		return nil, fmt.Errorf("database is ahead: %d migrations, want %d", len(existing), len(wanted))
	}

	needed := []string{}
	for i, want := range wanted {
		switch {
		case i >= len(existing):
			needed = append(needed, want)
		case want != existing[i]:
			return nil, fmt.Errorf("incompatible migration at %d", i)
		}
	}

	return needed, nil
}
