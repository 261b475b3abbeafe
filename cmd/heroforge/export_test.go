package main

import (
	"strings"
	"testing"

	"heroforge/internal/motif"
	"heroforge/internal/roll"
	"heroforge/internal/store"
	"heroforge/internal/story"
)

func testRecord(t *testing.T) *store.StoryRecord {
	t.Helper()
	pools := motif.Pools{
		motif.Being:  {"a wandering smith", "a river spirit"},
		motif.Human:  {"a wandering smith"},
		motif.Spirit: {"a river spirit"},
		motif.Event:  {"a flood"},
		motif.Object: {"a bronze key"},
		motif.Place:  {"a salt marsh"},
	}
	s := story.Generate(motif.NewPicker(pools, roll.New(7)))
	return store.NewRecord(s, 7)
}

func TestRender(t *testing.T) {
	rec := testRecord(t)

	t.Run("renders json that decodes back", func(t *testing.T) {
		data, err := render(rec, "json", 0)
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		if _, err := story.Decode(data); err != nil {
			t.Fatalf("expected decodable json, got %v", err)
		}
	})

	t.Run("renders a single act as markdown", func(t *testing.T) {
		data, err := render(rec, "md", 2)
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		if !strings.HasPrefix(string(data), "## Act II") {
			t.Fatalf("expected act II heading, got %q", string(data))
		}
	})

	t.Run("rejects act with json", func(t *testing.T) {
		if _, err := render(rec, "json", 1); err == nil {
			t.Fatalf("expected error for --act with json")
		}
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		if _, err := render(rec, "pdf", 0); err == nil {
			t.Fatalf("expected error for unknown format")
		}
	})
}
