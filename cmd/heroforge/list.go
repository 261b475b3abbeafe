package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved stories",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	stories, err := db.ListStories(ctx)
	if err != nil {
		return err
	}
	if len(stories) == 0 {
		fmt.Fprintln(os.Stdout, "No stories saved.")
		return nil
	}

	for _, s := range stories {
		fmt.Fprintf(os.Stdout, "%s  r%-3d %s  %s\n", s.ID, s.Revision, s.UpdatedAt.Local().Format("2006-01-02 15:04"), s.Title)
	}
	return nil
}

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>",
		Short: "Search saved outlines using the full-text index",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSearch,
	}
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	results, err := db.Search(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(os.Stdout, "No matches found.")
		return nil
	}

	for _, r := range results {
		fmt.Fprintf(os.Stdout, "%s  %s score=%.2f\n", r.ID, r.Title, r.Score)
		if r.Snippet != "" {
			fmt.Fprintf(os.Stdout, "    %s\n", r.Snippet)
		}
	}
	return nil
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved story",
		Args:  cobra.ExactArgs(1),
		RunE:  runDelete,
	}
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	if err := db.DeleteStory(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Deleted %s\n", args[0])
	return nil
}
