package main

import (
	"os"

	"github.com/spf13/cobra"

	"heroforge/internal/config"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:          "heroforge",
		Short:        "Procedural Hero's Journey outline engine",
		SilenceUsage: true,
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultFile, "Path to the project config")
	root.AddCommand(initCmd())
	root.AddCommand(generateCmd())
	root.AddCommand(showCmd())
	root.AddCommand(listCmd())
	root.AddCommand(searchCmd())
	root.AddCommand(deleteCmd())
	root.AddCommand(regenCmd())
	root.AddCommand(rerollCmd())
	root.AddCommand(setCmd())
	root.AddCommand(clearCmd())
	root.AddCommand(modCmd())
	root.AddCommand(exportCmd())
	root.AddCommand(importCmd())
	root.AddCommand(checkCmd())
	root.AddCommand(proseCmd())
	root.AddCommand(motifsCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(webCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
