package pipeline

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/ocrsynth/pkg/errors"
	"github.com/matzehuels/ocrsynth/pkg/io"
	"github.com/matzehuels/ocrsynth/pkg/observability"
)

// Batch synthesizes every item and writes images, provenance sidecars and a
// manifest to opts.OutDir. Entries keep input order whatever the worker
// scheduling.
//
// Without FailFast, item failures are recorded in the manifest and the
// returned error is nil. With FailFast the first failure cancels remaining
// work and is returned; no manifest is written.
func (r *Runner) Batch(ctx context.Context, items []io.Item, opts Options) (*BatchResult, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := checkIDs(items); err != nil {
		return nil, err
	}
	if _, err := r.Engine.ResolveProfile(opts.Condition); err != nil {
		return nil, err
	}

	start := time.Now()
	runID := uuid.NewString()
	logger := r.Logger.With("run", runID[:8])
	observability.Synthesis().OnBatchStart(ctx, runID, len(items))
	logger.Info("starting batch", "items", len(items), "condition", opts.Condition, "workers", opts.Workers)

	entries := make([]io.ManifestEntry, len(items))
	var (
		mu     sync.Mutex
		failed int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, item := range items {
		g.Go(func() error {
			seed := DeriveSeed(opts.Seed, item.ID)
			entries[i] = io.ManifestEntry{ID: item.ID, Condition: opts.Condition, Seed: seed, Text: item.Text}

			file, err := r.runItem(gctx, item, seed, opts)
			if err != nil {
				entries[i].Error = err.Error()
				mu.Lock()
				failed++
				mu.Unlock()
				if opts.FailFast || gctx.Err() != nil {
					return err
				}
				logger.Warn("item failed", "id", item.ID, "err", err)
				return nil
			}
			entries[i].File = file
			logger.Debug("item done", "id", item.ID, "file", file)
			return nil
		})
	}
	err := g.Wait()

	res := &BatchResult{
		RunID:     runID,
		Entries:   entries,
		Failed:    failed,
		Succeeded: len(items) - failed,
		Duration:  time.Since(start),
	}
	observability.Synthesis().OnBatchComplete(ctx, runID, res.Succeeded, res.Failed, res.Duration)
	if err != nil {
		return nil, err
	}

	res.Manifest = filepath.Join(opts.OutDir, ManifestName)
	if err := io.ExportManifest(res.Manifest, entries); err != nil {
		return nil, err
	}
	logger.Info("batch complete",
		"succeeded", res.Succeeded,
		"failed", res.Failed,
		"duration", res.Duration.Round(time.Millisecond))
	return res, nil
}

// runItem synthesizes one item and writes its image and sidecar. It returns
// the image path relative to opts.OutDir.
func (r *Runner) runItem(ctx context.Context, item io.Item, seed uint64, opts Options) (string, error) {
	req := opts.Request
	req.Text = item.Text
	res, err := r.Synthesize(ctx, req, opts.Condition, seed, opts.Format)
	if err != nil {
		return "", err
	}

	file := item.ID + opts.Format.Extension()
	path := filepath.Join(opts.OutDir, file)
	if err := io.WriteFile(path, res.Image); err != nil {
		return "", err
	}
	prov := res.Provenance
	prov.ID = item.ID
	prov.CreatedAt = time.Now().UTC()
	if err := io.ExportProvenance(io.SidecarPath(path), prov); err != nil {
		return "", err
	}
	return file, nil
}

// checkIDs rejects unusable or repeated item IDs before any work starts, so
// outputs never overwrite each other.
func checkIDs(items []io.Item) error {
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if err := errors.ValidateOutputName(it.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "item %q", it.ID)
		}
		if seen[it.ID] {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate item id %q", it.ID)
		}
		seen[it.ID] = true
	}
	return nil
}
