package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"heroforge/internal/config"
	"heroforge/internal/logger"
	"heroforge/internal/motif"
	"heroforge/internal/roll"
	"heroforge/internal/store"
	"heroforge/internal/store/postgres"
	"heroforge/internal/store/sqlite"
	"heroforge/internal/story"
)

// loadConfig reads the project config and starts logging.
func loadConfig() (*config.ProjectConfig, error) {
	cfg, err := config.LoadProjectConfig(configPath)
	if err != nil {
		return nil, err
	}
	if err := logger.Initialize(cfg.Logging); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	return cfg, nil
}

func openDB(ctx context.Context, cfg *config.ProjectConfig) (store.Store, error) {
	dsn := cfg.Database.DSN
	var (
		db  store.Store
		err error
	)
	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		db, err = sqlite.New(ctx, dsn)
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		db, err = postgres.New(ctx, dsn)
	default:
		return nil, fmt.Errorf("unsupported database DSN %q", dsn)
	}
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close(ctx)
		return nil, err
	}
	return db, nil
}

// newEngine loads the motif pools once and seeds the roller. seed overrides
// the configured seed when non-zero.
func newEngine(cfg *config.ProjectConfig, seed int64) (*story.Engine, int64, error) {
	pools, err := motif.LoadFile(cfg.Motifs.Path)
	if err != nil {
		return nil, 0, err
	}
	if seed == 0 {
		seed = cfg.Generation.Seed
	}
	dice := roll.New(seed)
	logger.Debug("motif pools loaded", "path", cfg.Motifs.Path, "motifs", pools.Len(), "seed", dice.Seed())
	return story.NewEngine(motif.NewPicker(pools, dice)), dice.Seed(), nil
}

// loadRecord resolves ref as a story file when one exists at that path and
// as a saved story id otherwise. File records have no id.
func loadRecord(ctx context.Context, cfg *config.ProjectConfig, ref string) (*store.StoryRecord, error) {
	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		return readStoryFile(ref)
	}
	db, err := openDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer db.Close(ctx)
	return db.GetStory(ctx, ref)
}

func readStoryFile(path string) (*store.StoryRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	s, err := story.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("importing %s: %w", path, err)
	}
	return &store.StoryRecord{Title: s.Title(), Story: s}, nil
}

// editStory applies fn to a saved story and stores the result as a new
// revision.
func editStory(id string, fn func(*story.Engine, *story.Story) (*story.Story, error)) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	engine, _, err := newEngine(cfg, 0)
	if err != nil {
		return err
	}
	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	rec, err := db.GetStory(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no saved story %q", id)
		}
		return err
	}
	next, err := fn(engine, rec.Story)
	if err != nil {
		return err
	}
	rec.Story = next
	if err := db.SaveStory(ctx, rec); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "%s revision %d: %s\n", rec.ID, rec.Revision, rec.Title)
	return nil
}
