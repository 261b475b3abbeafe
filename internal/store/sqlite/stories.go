package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"heroforge/internal/store"
	"heroforge/internal/story"
)

// fixed width so that text order matches time order
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}

func (c *Client) SaveStory(ctx context.Context, rec *store.StoryRecord) error {
	body, markdown, err := rec.Prepare()
	if err != nil {
		return err
	}
	now := formatTime(c.now())

	row := c.db.QueryRowContext(ctx, `
	INSERT INTO stories (id, title, seed, body, markdown, revision, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, 1, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		title = excluded.title,
		seed = excluded.seed,
		body = excluded.body,
		markdown = excluded.markdown,
		revision = stories.revision + 1,
		updated_at = excluded.updated_at
	RETURNING revision, created_at, updated_at
	`, rec.ID, rec.Title, rec.Seed, string(body), markdown, now, now)

	var created, updated string
	if err := row.Scan(&rec.Revision, &created, &updated); err != nil {
		return fmt.Errorf("saving story %s: %w", rec.ID, err)
	}
	if rec.CreatedAt, err = parseTime(created); err != nil {
		return err
	}
	if rec.UpdatedAt, err = parseTime(updated); err != nil {
		return err
	}
	return nil
}

func (c *Client) GetStory(ctx context.Context, id string) (*store.StoryRecord, error) {
	row := c.db.QueryRowContext(ctx, `
	SELECT id, title, seed, body, revision, created_at, updated_at
	FROM stories
	WHERE id = ?
	`, id)

	var rec store.StoryRecord
	var body, created, updated string
	err := row.Scan(&rec.ID, &rec.Title, &rec.Seed, &body, &rec.Revision, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.NotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting story %s: %w", id, err)
	}

	rec.Story, err = story.Decode([]byte(body))
	if err != nil {
		return nil, fmt.Errorf("decoding story %s: %w", id, err)
	}
	if rec.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if rec.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *Client) ListStories(ctx context.Context) ([]store.StorySummary, error) {
	rows, err := c.db.QueryContext(ctx, `
	SELECT id, title, revision, updated_at
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
		var updated string
		if err := rows.Scan(&s.ID, &s.Title, &s.Revision, &updated); err != nil {
			return nil, fmt.Errorf("scanning story summary: %w", err)
		}
		if s.UpdatedAt, err = parseTime(updated); err != nil {
			return nil, err
		}
		results = append(results, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stories: %w", err)
	}
	return results, nil
}

func (c *Client) DeleteStory(ctx context.Context, id string) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM stories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting story %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting story %s: %w", id, err)
	}
	if n == 0 {
		return store.NotFound(id)
	}
	return nil
}
