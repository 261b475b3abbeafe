package store

import (
	"testing"

	"github.com/google/uuid"

	"heroforge/internal/motif"
	"heroforge/internal/roll"
	"heroforge/internal/story"
)

func TestPrepare(t *testing.T) {
	pools := motif.Pools{
		motif.Being:  {"lantern keeper", "river witch"},
		motif.Object: {"bone flute"},
		motif.Place:  {"salt marsh"},
	}
	s := story.Generate(motif.NewPicker(pools, roll.New(5)))

	t.Run("assigns a uuid and title", func(t *testing.T) {
		rec := NewRecord(s, 5)
		body, markdown, err := rec.Prepare()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := uuid.Parse(rec.ID); err != nil {
			t.Fatalf("expected uuid id, got %q", rec.ID)
		}
		if rec.Title != s.Title() {
			t.Fatalf("expected title %q, got %q", s.Title(), rec.Title)
		}
		if len(body) == 0 || markdown == "" {
			t.Fatalf("expected encoded body and markdown")
		}
	})

	t.Run("keeps an existing id", func(t *testing.T) {
		id := uuid.NewString()
		rec := &StoryRecord{ID: id, Story: s}
		if _, _, err := rec.Prepare(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.ID != id {
			t.Fatalf("expected id %q, got %q", id, rec.ID)
		}
	})

	t.Run("rejects a record without a story", func(t *testing.T) {
		if _, _, err := (&StoryRecord{}).Prepare(); err == nil {
			t.Fatalf("expected error")
		}
	})
}
