package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"heroforge/internal/store"
	"heroforge/internal/story"
)

func generateCmd() *cobra.Command {
	var seed int64
	var save bool
	var out string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a new outline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(seed, save, out)
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 uses the configured seed or the clock)")
	cmd.Flags().BoolVar(&save, "save", false, "Save the story to the database")
	cmd.Flags().StringVar(&out, "out", "", "Write the story JSON to this file")
	return cmd
}

func runGenerate(seed int64, save bool, out string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	engine, used, err := newEngine(cfg, seed)
	if err != nil {
		return err
	}
	s := engine.Generate()

	if out != "" {
		data, err := story.Encode(s)
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
	}

	if save {
		db, err := openDB(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close(ctx)
		rec := store.NewRecord(s, used)
		if err := db.SaveStory(ctx, rec); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved %s (seed %d)\n", rec.ID, used)
	} else {
		fmt.Fprintf(os.Stderr, "Seed %d\n", used)
	}

	fmt.Fprint(os.Stdout, story.Markdown(s))
	return nil
}
