package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"heroforge/internal/config"
	"heroforge/internal/prose"
)

func proseCmd() *cobra.Command {
	var act int
	cmd := &cobra.Command{
		Use:   "prose <id|file>",
		Short: "Stream prose for a story outline from the configured model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProse(args[0], act)
		},
	}
	cmd.Flags().IntVar(&act, "act", 0, "Only write act 1, 2 or 3")
	return cmd
}

func runProse(ref string, act int) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newProse(cfg)
	if err != nil {
		return err
	}
	rec, err := loadRecord(ctx, cfg, ref)
	if err != nil {
		return err
	}

	if act != 0 {
		_, err = client.StreamAct(ctx, rec.Story, act, os.Stdout)
	} else {
		err = client.StreamStory(ctx, rec.Story, os.Stdout)
	}
	fmt.Fprintln(os.Stdout)
	return err
}

func newProse(cfg *config.ProjectConfig) (*prose.Client, error) {
	key := cfg.APIKey()
	if key == "" {
		return nil, fmt.Errorf("prose needs an API key in $%s", cfg.Prose.APIKeyEnv)
	}
	return prose.New(prose.Config{
		BaseURL:     cfg.Prose.BaseURL,
		Model:       cfg.Prose.Model,
		APIKey:      key,
		MaxTokens:   cfg.Prose.MaxTokens,
		Temperature: cfg.Prose.Temperature,
	}), nil
}
