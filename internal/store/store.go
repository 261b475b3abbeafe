package store

import "context"

// Store persists generated stories between sessions.
type Store interface {
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	SaveStory(ctx context.Context, rec *StoryRecord) error
	GetStory(ctx context.Context, id string) (*StoryRecord, error)
	ListStories(ctx context.Context) ([]StorySummary, error)
	DeleteStory(ctx context.Context, id string) error
	Search(ctx context.Context, query string) ([]SearchResult, error)
}
