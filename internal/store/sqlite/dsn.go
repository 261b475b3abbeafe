package sqlite

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

const (
	scheme = "sqlite://"
	memory = ":memory:"
)

var errEmptyPath = errors.New("sqlite DSN has no database path")

// parseDSN turns sqlite://path[?query] into what the driver expects.
// Relative paths are anchored at the working directory.
func parseDSN(dsn string) (string, error) {
	rest, ok := strings.CutPrefix(dsn, scheme)
	if !ok {
		return "", fmt.Errorf("invalid sqlite DSN scheme, expected %s", scheme)
	}
	if rest == memory {
		return memory, nil
	}

	path, query, hasQuery := strings.Cut(rest, "?")
	path, err := url.PathUnescape(path)
	if err != nil {
		return "", fmt.Errorf("unescaping path: %w", err)
	}
	if path == "" {
		return "", errEmptyPath
	}
	if !filepath.IsAbs(path) && !strings.HasPrefix(path, "./") {
		path = "./" + path
	}
	if hasQuery {
		return path + "?" + query, nil
	}
	return path, nil
}

// inMemory reports whether the driver DSN opens a private in-memory database.
func inMemory(driverDSN string) bool {
	return driverDSN == memory
}
