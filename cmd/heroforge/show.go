package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"heroforge/internal/story"
)

func showCmd() *cobra.Command {
	var raw bool
	var act int
	cmd := &cobra.Command{
		Use:   "show <id|file>",
		Short: "Render a story outline in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(args[0], act, raw)
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Print markdown without terminal styling")
	cmd.Flags().IntVar(&act, "act", 0, "Only show act 1, 2 or 3")
	return cmd
}

func runShow(ref string, act int, raw bool) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	rec, err := loadRecord(ctx, cfg, ref)
	if err != nil {
		return err
	}

	md := story.Markdown(rec.Story)
	if act != 0 {
		if md, err = story.ActMarkdown(rec.Story, act); err != nil {
			return err
		}
	}
	if raw {
		fmt.Fprint(os.Stdout, md)
		return nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}
	rendered, err := renderer.Render(md)
	if err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}
	fmt.Fprint(os.Stdout, rendered)
	return nil
}
