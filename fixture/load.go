package fixture

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ggriffiniii/httptest"
)

// Common load errors.
var (
	ErrFileNotFound = errors.New("fixture file not found")
	ErrEmptyFile    = errors.New("fixture file is empty")
)

// Load reads and parses one fixture file.
func Load(path string) ([]*httptest.Expectation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		switch {
		case os.IsNotExist(err):
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		case os.IsPermission(err):
			return nil, fmt.Errorf("permission denied: %s", path)
		default:
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	es, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return es, nil
}

// LoadGlob loads every fixture file matching pattern and concatenates their
// expectations in sorted path order, so registration order is deterministic.
// Patterns may use ** for recursive directory matching. A pattern matching
// no files yields no expectations and no error.
func LoadGlob(pattern string) ([]*httptest.Expectation, error) {
	matches, err := expandGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("expanding glob %s: %w", pattern, err)
	}
	sort.Strings(matches)

	var out []*httptest.Expectation
	for _, match := range matches {
		es, err := Load(match)
		if err != nil {
			return nil, err
		}
		out = append(out, es...)
	}
	return out, nil
}

// expandGlob uses doublestar for ** patterns and filepath.Glob otherwise.
func expandGlob(pattern string) ([]string, error) {
	if strings.Contains(pattern, "**") {
		return doublestar.FilepathGlob(pattern)
	}
	return filepath.Glob(pattern)
}

// Install registers the expectations on s in order.
func Install(s *httptest.Server, es ...*httptest.Expectation) {
	for _, e := range es {
		s.Expect(e)
	}
}
