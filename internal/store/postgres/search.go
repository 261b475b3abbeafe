package postgres

import (
	"context"
	"fmt"
	"strings"

	"heroforge/internal/store"
)

func (c *Client) Search(ctx context.Context, query string) ([]store.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query must not be empty")
	}

	sql := `
SELECT id::text, title,
    ts_rank(search_vector, websearch_to_tsquery('english', $1)) AS score,
    ts_headline('english', markdown, websearch_to_tsquery('english', $1),
        'MaxFragments=2, MaxWords=32, MinWords=12, StartSel=**, StopSel=**') AS snippet
FROM stories
WHERE search_vector @@ websearch_to_tsquery('english', $1)
ORDER BY score DESC, title ASC
LIMIT 50
`

	rows, err := c.pool.Query(ctx, sql, query)
	if err != nil {
		return nil, fmt.Errorf("searching stories: %w", err)
	}
	defer rows.Close()

	results := []store.SearchResult{}
	for rows.Next() {
		var r store.SearchResult
		if err := rows.Scan(&r.ID, &r.Title, &r.Score, &r.Snippet); err != nil {
			return nil, fmt.Errorf("scanning search result: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search results: %w", err)
	}

	return results, nil
}
