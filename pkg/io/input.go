package io

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/ocrsynth/pkg/errors"
)

// Item is one text to synthesize.
type Item struct {
	ID   string // stable identifier used for file names and seed derivation
	Text string
}

// LoadOptions controls how inputs are discovered.
type LoadOptions struct {
	// Pattern filters files in a directory input. Default "*.txt".
	Pattern string
	// Recursive descends into subdirectories of a directory input.
	Recursive bool
}

// Load reads items from path: a directory of text files, a CSV file, or a
// plain text file with one item per line.
func Load(path string, opts LoadOptions) ([]Item, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "input %s does not exist", path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return ReadDir(path, opts)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return ReadCSV(f)
	}
	return ReadLines(f)
}

// ReadLines returns one item per non-blank line. IDs count lines from 1,
// including blank ones, so they stay stable when blank lines are edited.
func ReadLines(r io.Reader) ([]Item, error) {
	var items []Item
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for n := 1; sc.Scan(); n++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		items = append(items, Item{ID: fmt.Sprintf("line-%04d", n), Text: text})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read lines: %w", err)
	}
	return items, nil
}

// ReadCSV returns one item per non-empty cell. The first record is a header
// whose names identify columns; IDs are "<row>_<column>" with rows counted
// from 0 after the header.
func ReadCSV(r io.Reader) ([]Item, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read csv header")
	}
	for i, h := range header {
		header[i] = errors.SanitizeOutputName(strings.TrimSpace(h))
		if header[i] == "" {
			header[i] = fmt.Sprintf("col%d", i)
		}
	}

	var items []Item
	for row := 0; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read csv row %d", row)
		}
		for col, cell := range rec {
			text := strings.TrimSpace(cell)
			if text == "" || col >= len(header) {
				continue
			}
			items = append(items, Item{ID: fmt.Sprintf("%d_%s", row, header[col]), Text: text})
		}
	}
	return items, nil
}

// ReadDir returns one item per matching file, sorted by path. File contents
// are trimmed; empty files are skipped.
func ReadDir(dir string, opts LoadOptions) ([]Item, error) {
	pattern := opts.Pattern
	if pattern == "" {
		pattern = "*.txt"
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "bad file pattern %q", pattern)
	}

	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && !opts.Recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if ok, _ := filepath.Match(pattern, d.Name()); ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	slices.Sort(paths)

	items := make([]Item, 0, len(paths))
	seen := make(map[string]bool, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		text := strings.TrimSpace(string(data))
		if text == "" {
			continue
		}
		id := itemID(dir, path)
		if seen[id] {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate input id %q from %s", id, path)
		}
		seen[id] = true
		items = append(items, Item{ID: id, Text: text})
	}
	return items, nil
}

// itemID derives an ID from a path relative to root without its extension.
// Nested directories are joined with "_".
func itemID(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	return errors.SanitizeOutputName(strings.ReplaceAll(filepath.ToSlash(rel), "/", "_"))
}
