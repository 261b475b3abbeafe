package main

import (
	"github.com/spf13/cobra"

	"heroforge/internal/story"
)

func rerollCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reroll <id> <path>",
		Short: "Draw a fresh motif for one field",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editStory(args[0], func(e *story.Engine, s *story.Story) (*story.Story, error) {
				return e.Reroll(s, args[1])
			})
		},
	}
}

func setCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <id> <path> <text>",
		Short: "Replace the text of one field",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editStory(args[0], func(e *story.Engine, s *story.Story) (*story.Story, error) {
				return e.SetText(s, args[1], args[2])
			})
		},
	}
}

func clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear <id> <path>",
		Short: "Clear an optional field",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editStory(args[0], func(e *story.Engine, s *story.Story) (*story.Story, error) {
				return e.Clear(s, args[1])
			})
		},
	}
}

func modCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mod",
		Short: "Edit the modifier list of a character or place",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add <id> <path>",
		Short: "Attach an unused modifier",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editStory(args[0], func(e *story.Engine, s *story.Story) (*story.Story, error) {
				return e.AddModifier(s, args[1])
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "rm <id> <path> <label>",
		Short: "Remove a modifier by label",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editStory(args[0], func(e *story.Engine, s *story.Story) (*story.Story, error) {
				return e.RemoveModifier(s, args[1], args[2])
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "rename <id> <path> <from> <to>",
		Short: "Rename a modifier label",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editStory(args[0], func(e *story.Engine, s *story.Story) (*story.Story, error) {
				return e.RenameModifier(s, args[1], args[2], args[3])
			})
		},
	})
	return cmd
}
