package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"heroforge/internal/store"
	"heroforge/internal/story"
)

func exportCmd() *cobra.Command {
	var format string
	var out string
	var act int
	cmd := &cobra.Command{
		Use:   "export <id|file>",
		Short: "Export a story as JSON or markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(args[0], format, act, out)
		},
	}
	cmd.Flags().StringVar(&format, "format", "md", "Output format: md or json")
	cmd.Flags().IntVar(&act, "act", 0, "Only export act 1, 2 or 3 (markdown only)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to this file instead of stdout")
	return cmd
}

func runExport(ref, format string, act int, out string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	rec, err := loadRecord(ctx, cfg, ref)
	if err != nil {
		return err
	}

	data, err := render(rec, format, act)
	if err != nil {
		return err
	}
	if out == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", out)
	return nil
}

func render(rec *store.StoryRecord, format string, act int) ([]byte, error) {
	switch format {
	case "json":
		if act != 0 {
			return nil, fmt.Errorf("--act only applies to markdown")
		}
		return story.Encode(rec.Story)
	case "md", "markdown":
		if act == 0 {
			return []byte(story.Markdown(rec.Story)), nil
		}
		md, err := story.ActMarkdown(rec.Story, act)
		if err != nil {
			return nil, err
		}
		return []byte(md), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want md or json)", format)
	}
}
