package io

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// ManifestEntry is one row of a batch manifest.
type ManifestEntry struct {
	ID        string
	File      string // image path relative to the output directory; empty on failure
	Condition string
	Seed      uint64
	Text      string
	Error     string
}

var manifestHeader = []string{"id", "file", "condition", "seed", "text", "error"}

// WriteManifest writes entries as CSV with a header row.
func WriteManifest(w io.Writer, entries []ManifestEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(manifestHeader); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	for _, e := range entries {
		row := []string{e.ID, e.File, e.Condition, strconv.FormatUint(e.Seed, 10), e.Text, e.Error}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write manifest: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// ReadManifest parses a manifest written by WriteManifest.
func ReadManifest(r io.Reader) ([]ManifestEntry, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	out := make([]ManifestEntry, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != len(manifestHeader) {
			return nil, fmt.Errorf("read manifest: row %d has %d fields, want %d", i+1, len(row), len(manifestHeader))
		}
		seed, err := strconv.ParseUint(row[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("read manifest: row %d seed: %w", i+1, err)
		}
		out = append(out, ManifestEntry{ID: row[0], File: row[1], Condition: row[2], Seed: seed, Text: row[4], Error: row[5]})
	}
	return out, nil
}

// ExportManifest writes the manifest to path.
func ExportManifest(path string, entries []ManifestEntry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteManifest(f, entries); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
