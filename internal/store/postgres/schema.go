package postgres

import (
	"context"
	"fmt"
)

// EnsureSchema runs the DDL in one call, which PostgreSQL executes as a
// single implicit transaction.
func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
CREATE TABLE IF NOT EXISTS stories (
    id         UUID PRIMARY KEY,
    title      TEXT NOT NULL,
    seed       BIGINT NOT NULL DEFAULT 0,
    body       JSONB NOT NULL,
    markdown   TEXT NOT NULL DEFAULT '',
    revision   INTEGER NOT NULL DEFAULT 1,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

ALTER TABLE stories ADD COLUMN IF NOT EXISTS search_vector TSVECTOR
    GENERATED ALWAYS AS (
        setweight(to_tsvector('english', title), 'A') ||
        setweight(to_tsvector('english', markdown), 'B')
    ) STORED;

CREATE INDEX IF NOT EXISTS idx_stories_search ON stories USING GIN (search_vector);
CREATE INDEX IF NOT EXISTS idx_stories_updated ON stories (updated_at DESC);
`
	_, err := c.pool.Exec(ctx, ddl)
	if err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}
