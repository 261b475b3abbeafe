package sqlite

import (
	"context"
	"fmt"
	"strings"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS stories (
		id         TEXT PRIMARY KEY,
		title      TEXT NOT NULL,
		seed       INTEGER NOT NULL DEFAULT 0,
		body       TEXT NOT NULL,
		markdown   TEXT NOT NULL DEFAULT '',
		revision   INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_stories_updated ON stories (updated_at);

	CREATE VIRTUAL TABLE IF NOT EXISTS stories_fts USING fts5(
		title,
		markdown,
		content=stories,
		content_rowid=rowid
	);

	CREATE TRIGGER IF NOT EXISTS stories_ai AFTER INSERT ON stories BEGIN
		INSERT INTO stories_fts(rowid, title, markdown)
		VALUES (new.rowid, new.title, new.markdown);
	END;

	CREATE TRIGGER IF NOT EXISTS stories_ad AFTER DELETE ON stories BEGIN
		INSERT INTO stories_fts(stories_fts, rowid, title, markdown)
		VALUES ('delete', old.rowid, old.title, old.markdown);
	END;

	CREATE TRIGGER IF NOT EXISTS stories_au AFTER UPDATE ON stories BEGIN
		INSERT INTO stories_fts(stories_fts, rowid, title, markdown)
		VALUES ('delete', old.rowid, old.title, old.markdown);
		INSERT INTO stories_fts(rowid, title, markdown)
		VALUES (new.rowid, new.title, new.markdown);
	END;
	`

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	statements := splitStatements(ddl)
	for _, stmt := range statements {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing DDL: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema transaction: %w", err)
	}

	return nil
}

// splitStatements cuts the DDL at lines ending in ";". Trigger bodies are
// kept whole because their inner statements are indented under BEGIN and
// only END; closes them.
func splitStatements(ddl string) []string {
	var statements []string
	var current strings.Builder
	inTrigger := false

	for _, line := range strings.Split(ddl, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")

		upper := strings.ToUpper(stripped)
		if strings.HasPrefix(upper, "CREATE TRIGGER") {
			inTrigger = true
		}
		if inTrigger {
			if upper == "END;" {
				inTrigger = false
				statements = append(statements, current.String())
				current.Reset()
			}
			continue
		}

		if strings.HasSuffix(stripped, ";") {
			statements = append(statements, current.String())
			current.Reset()
		}
	}

	if strings.TrimSpace(current.String()) != "" {
		statements = append(statements, current.String())
	}

	return statements
}
