package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"heroforge/internal/store"
	"heroforge/internal/story"
)

func (c *Client) SaveStory(ctx context.Context, rec *store.StoryRecord) error {
	body, markdown, err := rec.Prepare()
	if err != nil {
		return err
	}

	sql := `
INSERT INTO stories (id, title, seed, body, markdown, revision, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, 1, now(), now())
ON CONFLICT (id) DO UPDATE SET
    title = EXCLUDED.title,
    seed = EXCLUDED.seed,
    body = EXCLUDED.body,
    markdown = EXCLUDED.markdown,
    revision = stories.revision + 1,
    updated_at = now()
RETURNING revision, created_at, updated_at
`
	err = c.pool.QueryRow(ctx, sql, rec.ID, rec.Title, rec.Seed, string(body), markdown).
		Scan(&rec.Revision, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving story %s: %w", rec.ID, err)
	}
	return nil
}

func (c *Client) GetStory(ctx context.Context, id string) (*store.StoryRecord, error) {
	sql := `
SELECT id::text, title, seed, body, revision, created_at, updated_at
FROM stories
WHERE id::text = $1
`
	var rec store.StoryRecord
	var body []byte
	err := c.pool.QueryRow(ctx, sql, id).
		Scan(&rec.ID, &rec.Title, &rec.Seed, &body, &rec.Revision, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.NotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting story %s: %w", id, err)
	}

	rec.Story, err = story.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("decoding story %s: %w", id, err)
	}
	return &rec, nil
}

func (c *Client) ListStories(ctx context.Context) ([]store.StorySummary, error) {
	rows, err := c.pool.Query(ctx, `
SELECT id::text, title, revision, updated_at
FROM stories
ORDER BY updated_at DESC, id ASC
`)
	if err != nil {
		return nil, fmt.Errorf("listing stories: %w", err)
	}
	defer rows.Close()

	results := []store.StorySummary{}
	for rows.Next() {
		var s store.StorySummary
		if err := rows.Scan(&s.ID, &s.Title, &s.Revision, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning story summary: %w", err)
		}
		results = append(results, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stories: %w", err)
	}
	return results, nil
}

func (c *Client) DeleteStory(ctx context.Context, id string) error {
	tag, err := c.pool.Exec(ctx, `DELETE FROM stories WHERE id::text = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting story %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return store.NotFound(id)
	}
	return nil
}
