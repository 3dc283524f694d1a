// Package pipeline wraps the engine for CLI and server use: it encodes
// results, caches them, writes them to disk and runs batches concurrently.
//
// The engine stays pure. Everything with side effects (logging, caching,
// file output, hooks) happens here.
//
// # Usage
//
// Synthesize one image:
//
//	runner := pipeline.NewRunner(eng, cache, nil, logger)
//	res, err := runner.Synthesize(ctx, render.Request{Text: "HELLO"}, "noisy", 7, io.FormatPNG)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("hello.png", res.Image, 0644)
//
// Run a batch over a folder of text files:
//
//	items, _ := io.Load("corpus/", io.LoadOptions{})
//	batch, err := runner.Batch(ctx, items, pipeline.Options{
//	    Condition: "scanned",
//	    OutDir:    "out/",
//	    Workers:   8,
//	})
//
// Each batch item gets its own seed derived from the base seed and the
// item ID, so a single item reproduces regardless of batch size or order.
package pipeline

import (
	"encoding/binary"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/matzehuels/ocrsynth/pkg/errors"
	"github.com/matzehuels/ocrsynth/pkg/io"
	"github.com/matzehuels/ocrsynth/pkg/profile"
	"github.com/matzehuels/ocrsynth/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultCondition is used when no condition is given.
	DefaultCondition = profile.Minimal

	// DefaultSeed is the default base seed.
	DefaultSeed = uint64(42)

	// DefaultWorkers is the default batch concurrency.
	DefaultWorkers = 4

	// MaxWorkers caps batch concurrency.
	MaxWorkers = 256

	// ManifestName is the manifest file written into a batch output directory.
	ManifestName = "manifest.csv"
)

// DefaultFormat is the default image encoding.
const DefaultFormat = io.FormatPNG

// =============================================================================
// Options - Batch Configuration
// =============================================================================

// Options configures a batch run.
type Options struct {
	// Request is the template for every item; its Text is replaced per item.
	Request   render.Request
	Condition string
	Seed      uint64 // base seed, combined with each item ID; zero is a seed like any other
	Format    io.Format

	// OutDir receives one image and one provenance sidecar per item, plus
	// the manifest.
	OutDir string

	Workers int
	// FailFast cancels the batch on the first failed item. Otherwise
	// failures are recorded in the manifest and the batch continues.
	FailFast bool

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.OutDir == "" {
		return errors.New(errors.ErrCodeInvalidInput, "output directory is required")
	}
	if o.Condition == "" {
		o.Condition = DefaultCondition
	}
	f, err := io.ParseFormat(string(o.Format))
	if err != nil {
		return err
	}
	o.Format = f
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.Workers > MaxWorkers {
		o.Workers = MaxWorkers
	}
	o.validated = true
	return nil
}

// =============================================================================
// Results
// =============================================================================

// Result is one encoded synthesis.
type Result struct {
	Image      []byte
	Format     io.Format
	Provenance io.Provenance
	CacheHit   bool
	Duration   time.Duration
}

// BatchResult summarises a batch run. Entries are in input order.
type BatchResult struct {
	RunID     string
	Entries   []io.ManifestEntry
	Succeeded int
	Failed    int
	Manifest  string // manifest path
	Duration  time.Duration
}

// DeriveSeed combines a base seed with an item ID.
func DeriveSeed(base uint64, id string) uint64 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], base)
	d := xxhash.New()
	d.Write(b[:])
	d.WriteString(id)
	return d.Sum64()
}
