package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Save a story JSON file as a new record",
		Args:  cobra.ExactArgs(1),
		RunE:  runImport,
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	rec, err := readStoryFile(args[0])
	if err != nil {
		return err
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	if err := db.SaveStory(ctx, rec); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Imported %s: %s\n", rec.ID, rec.Title)
	return nil
}
