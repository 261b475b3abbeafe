package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"heroforge/internal/check"
	"heroforge/internal/motif"
)

func checkCmd() *cobra.Command {
	var pools bool
	cmd := &cobra.Command{
		Use:   "check [id|file]",
		Short: "Run consistency checks against a story or the motif pools",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if pools {
				return runCheckPools()
			}
			if len(args) != 1 {
				return fmt.Errorf("a story id or file is required unless --pools is set")
			}
			return runCheck(args[0])
		},
	}
	cmd.Flags().BoolVar(&pools, "pools", false, "Check the configured motif pools instead of a story")
	return cmd
}

func runCheck(ref string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	rec, err := loadRecord(ctx, cfg, ref)
	if err != nil {
		return err
	}
	report, err := check.Run(rec.Story)
	if err != nil {
		return err
	}
	return printReport(report)
}

func runCheckPools() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	pools, err := motif.LoadFile(cfg.Motifs.Path)
	if err != nil {
		return err
	}
	return printReport(check.Pools(pools))
}

func printReport(report *check.Report) error {
	var errorIssues []check.Issue
	var warnIssues []check.Issue
	for _, issue := range report.Issues {
		switch issue.Severity {
		case check.SeverityError:
			errorIssues = append(errorIssues, issue)
		case check.SeverityWarn:
			warnIssues = append(warnIssues, issue)
		}
	}

	if len(errorIssues) == 0 && len(warnIssues) == 0 {
		fmt.Fprintln(os.Stdout, "No issues found.")
		return nil
	}

	if len(errorIssues) > 0 {
		fmt.Fprintf(os.Stdout, "Errors (%d):\n", len(errorIssues))
		printIssues(os.Stdout, errorIssues)
	}
	if len(warnIssues) > 0 {
		if len(errorIssues) > 0 {
			fmt.Fprintln(os.Stdout, "")
		}
		fmt.Fprintf(os.Stdout, "Warnings (%d):\n", len(warnIssues))
		printIssues(os.Stdout, warnIssues)
	}

	if len(errorIssues) > 0 {
		return fmt.Errorf("check found errors")
	}
	return nil
}

func printIssues(out *os.File, issues []check.Issue) {
	for _, issue := range issues {
		fmt.Fprintf(out, "  - %s: %s (%s)\n", issue.Path, issue.Message, issue.Code)
	}
}
