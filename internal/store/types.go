package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"heroforge/internal/story"
)

var ErrNotFound = errors.New("story not found")

// StoryRecord is a saved story. ID, Revision and the timestamps are filled
// in by SaveStory.
type StoryRecord struct {
	ID        string
	Title     string
	Seed      int64
	Story     *story.Story
	Revision  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type StorySummary struct {
	ID        string
	Title     string
	Revision  int
	UpdatedAt time.Time
}

type SearchResult struct {
	ID      string
	Title   string
	Score   float64
	Snippet string
}

// NewRecord wraps a freshly generated story for saving.
func NewRecord(s *story.Story, seed int64) *StoryRecord {
	return &StoryRecord{Story: s, Seed: seed}
}

// Prepare assigns an ID when the record has none, refreshes the title from
// the story and returns the encoded body with its markdown projection.
func (r *StoryRecord) Prepare() ([]byte, string, error) {
	if r.Story == nil {
		return nil, "", fmt.Errorf("record %q has no story", r.ID)
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	} else if _, err := uuid.Parse(r.ID); err != nil {
		return nil, "", fmt.Errorf("invalid story id %q: %w", r.ID, err)
	}
	r.Title = r.Story.Title()
	body, err := story.Encode(r.Story)
	if err != nil {
		return nil, "", fmt.Errorf("encoding story %s: %w", r.ID, err)
	}
	return body, story.Markdown(r.Story), nil
}

// Summary drops the story body.
func (r *StoryRecord) Summary() StorySummary {
	return StorySummary{ID: r.ID, Title: r.Title, Revision: r.Revision, UpdatedAt: r.UpdatedAt}
}

// NotFound wraps ErrNotFound with the requested id.
func NotFound(id string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}
