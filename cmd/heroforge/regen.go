package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"heroforge/internal/story"
)

func regenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "regen <id> <beat>",
		Short: "Regenerate one beat and every beat that depends on it",
		Long:  "Regenerate one beat of a saved story. The beat is a kebab-case name such as ordeal or its index 0-11.",
		Args:  cobra.ExactArgs(2),
		RunE:  runRegen,
	}
}

func runRegen(cmd *cobra.Command, args []string) error {
	kind, err := story.ParseKind(args[1])
	if err != nil {
		return err
	}
	return editStory(args[0], func(e *story.Engine, s *story.Story) (*story.Story, error) {
		next, touched, err := e.Regenerate(s, int(kind))
		if err != nil {
			return nil, err
		}
		for _, i := range touched {
			fmt.Fprintf(os.Stdout, "  regenerated %d %s\n", i, story.Kind(i).Title())
		}
		return next, nil
	})
}
