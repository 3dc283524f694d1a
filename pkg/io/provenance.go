package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/ocrsynth/pkg/buildinfo"
	"github.com/matzehuels/ocrsynth/pkg/engine"
)

// Provenance describes how one image was produced.
type Provenance struct {
	ID         string        `json:"id,omitempty"`
	Text       string        `json:"text"`
	Condition  string        `json:"condition"`
	Seed       uint64        `json:"seed"`
	Language   string        `json:"language"`
	Font       string        `json:"font"`
	Size       float64       `json:"size"`
	DPI        int           `json:"dpi"`
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	Background uint8         `json:"background"`
	Ink        uint8         `json:"ink"`
	Format     Format        `json:"format,omitempty"`
	Stages     []StageRecord `json:"stages"`
	Version    string        `json:"version,omitempty"`
	CreatedAt  time.Time     `json:"created_at,omitzero"`
}

// StageRecord is one applied stage.
type StageRecord struct {
	Kind   string             `json:"kind"`
	Params map[string]float64 `json:"params"`
	Drawn  map[string]float64 `json:"drawn,omitempty"`
}

// NewProvenance builds the record for a synthesis result.
func NewProvenance(id string, res *engine.Result, f Format) Provenance {
	p := Provenance{
		ID:         id,
		Text:       res.Request.Text,
		Condition:  res.Condition,
		Seed:       res.Seed,
		Language:   res.Request.Language,
		Font:       string(res.FontStyle),
		Size:       res.Request.Size,
		DPI:        res.Request.DPI,
		Width:      res.Canvas.Width(),
		Height:     res.Canvas.Height(),
		Background: res.Request.Background,
		Ink:        res.Request.Ink,
		Format:     f,
		Stages:     make([]StageRecord, len(res.Stages)),
		Version:    buildinfo.Version,
	}
	for i, s := range res.Stages {
		p.Stages[i] = StageRecord{Kind: s.Kind.String(), Params: s.Params.Values(), Drawn: s.Drawn}
	}
	return p
}

// WriteProvenance encodes p as indented JSON.
func WriteProvenance(w io.Writer, p Provenance) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode provenance: %w", err)
	}
	return nil
}

// ReadProvenance decodes a sidecar.
func ReadProvenance(r io.Reader) (Provenance, error) {
	var p Provenance
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return Provenance{}, fmt.Errorf("decode provenance: %w", err)
	}
	return p, nil
}

// ExportProvenance writes p to path.
func ExportProvenance(path string, p Provenance) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteProvenance(f, p)
}

// ImportProvenance reads a sidecar from path.
func ImportProvenance(path string) (Provenance, error) {
	f, err := os.Open(path)
	if err != nil {
		return Provenance{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadProvenance(f)
}

// SidecarPath returns the provenance path for an image path.
func SidecarPath(imagePath string) string {
	return imagePath[:len(imagePath)-len(filepath.Ext(imagePath))] + ".json"
}
