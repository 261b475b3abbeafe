// Package ingest builds motif pools from the clustered motif-index CSV.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"heroforge/internal/logger"
	"heroforge/internal/motif"
)

var ErrMissingColumn = errors.New("missing required column")

var requiredColumns = []string{"motif_name", "category", "subcategory"}

type Result struct {
	RowsRead      int
	RowsSkipped   int
	PoolsWritten  int
	MotifsWritten int
	Errors        []error
}

type Options struct {
	// MaxPerPool caps each pool after sorting. Zero keeps everything.
	MaxPerPool int
}

// Build reads rows of motif_name, category and subcategory. Being rows are
// added to the Being pool and to their subcategory pool; every other row
// goes to its category pool. Names are trimmed, deduplicated and sorted.
func Build(ctx context.Context, r io.Reader, options Options) (motif.Pools, *Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("reading header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	result := &Result{}
	sets := make(map[motif.Key]map[string]struct{})
	add := func(k motif.Key, name string) {
		if sets[k] == nil {
			sets[k] = make(map[string]struct{})
		}
		sets[k][name] = struct{}{}
	}
	field := func(record []string, name string) string {
		i := cols[name]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	for line := 2; ; line++ {
		if line%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		result.RowsRead++

		name := cleanName(field(record, "motif_name"))
		category := motif.Key(field(record, "category"))
		if name == "" {
			result.RowsSkipped++
			continue
		}
		switch {
		case category == motif.Being:
			add(motif.Being, name)
			if sub := motif.Key(field(record, "subcategory")); motif.IsBeing(sub) {
				add(sub, name)
			}
		case slices.Contains(motif.GeneralKeys, category):
			add(category, name)
		default:
			logger.Debug("skipping motif with unknown category", "line", line, "category", string(category))
			result.RowsSkipped++
		}
	}

	pools := make(motif.Pools, len(sets))
	for k, set := range sets {
		names := make([]string, 0, len(set))
		for name := range set {
			names = append(names, name)
		}
		slices.Sort(names)
		if options.MaxPerPool > 0 && len(names) > options.MaxPerPool {
			names = names[:options.MaxPerPool]
		}
		pools[k] = names
		result.MotifsWritten += len(names)
	}
	result.PoolsWritten = len(pools)
	return pools, result, nil
}

// BuildFile reads a CSV file and writes the pool JSON to outPath.
func BuildFile(ctx context.Context, csvPath, outPath string, options Options) (*Result, error) {
	in, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("opening motif csv: %w", err)
	}
	defer in.Close()

	pools, result, err := Build(ctx, in, options)
	if err != nil {
		return nil, fmt.Errorf("building pools from %s: %w", csvPath, err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", outPath, err)
	}
	if err := pools.Encode(out); err != nil {
		out.Close()
		return nil, fmt.Errorf("writing %s: %w", outPath, err)
	}
	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("writing %s: %w", outPath, err)
	}
	return result, nil
}

// cleanName drops the trailing period index entries carry.
func cleanName(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, ".") && !strings.HasSuffix(s, "..") {
		s = strings.TrimSuffix(s, ".")
	}
	return strings.TrimSpace(s)
}
