package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"heroforge/internal/config"
)

func initCmd() *cobra.Command {
	var projectName string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a new heroforge project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(projectName) == "" {
				return fmt.Errorf("--name is required")
			}
			return runInit(projectName)
		},
	}
	cmd.Flags().StringVar(&projectName, "name", "", "Project name")
	return cmd
}

func runInit(projectName string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists", configPath)
	}

	contents, err := config.Marshal(config.Default(projectName))
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(configPath, contents, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", configPath, err)
	}

	fmt.Fprintf(os.Stdout, "Wrote %s. Build motif pools with: heroforge motifs build <motifs.csv> motifs.json\n", configPath)
	return nil
}
