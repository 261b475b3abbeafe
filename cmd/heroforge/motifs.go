package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"heroforge/internal/ingest"
	"heroforge/internal/motif"
)

func motifsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "motifs",
		Short: "Build and inspect motif pools",
	}

	var maxPerPool int
	build := &cobra.Command{
		Use:   "build <motifs.csv> <out.json>",
		Short: "Build motif pools from the clustered motif-index CSV",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMotifsBuild(args[0], args[1], maxPerPool)
		},
	}
	build.Flags().IntVar(&maxPerPool, "max-per-pool", 0, "Cap each pool at this many motifs (0 keeps all)")
	cmd.AddCommand(build)

	cmd.AddCommand(&cobra.Command{
		Use:   "stats [pools.json]",
		Short: "Show how many motifs each pool holds",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMotifsStats,
	})
	return cmd
}

func runMotifsBuild(csvPath, outPath string, maxPerPool int) error {
	result, err := ingest.BuildFile(context.Background(), csvPath, outPath, ingest.Options{MaxPerPool: maxPerPool})
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, "Build complete.")
	fmt.Fprintf(os.Stdout, "  Rows read:      %d\n", result.RowsRead)
	fmt.Fprintf(os.Stdout, "  Rows skipped:   %d\n", result.RowsSkipped)
	fmt.Fprintf(os.Stdout, "  Pools written:  %d\n", result.PoolsWritten)
	fmt.Fprintf(os.Stdout, "  Motifs written: %d\n", result.MotifsWritten)

	if len(result.Errors) > 0 {
		fmt.Fprintf(os.Stdout, "\nErrors (%d):\n", len(result.Errors))
		for _, item := range result.Errors {
			fmt.Fprintf(os.Stdout, "  - %v\n", item)
		}
		return fmt.Errorf("build completed with errors")
	}
	return nil
}

func runMotifsStats(cmd *cobra.Command, args []string) error {
	var path string
	if len(args) == 1 {
		path = args[0]
	} else {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path = cfg.Motifs.Path
	}

	pools, err := motif.LoadFile(path)
	if err != nil {
		return err
	}
	for _, k := range pools.Keys() {
		fmt.Fprintf(os.Stdout, "%-16s %d\n", k, len(pools.Get(k)))
	}
	fmt.Fprintf(os.Stdout, "%-16s %d\n", "total", pools.Len())
	return nil
}
