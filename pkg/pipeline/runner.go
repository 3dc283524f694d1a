package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	stdio "io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ocrsynth/pkg/cache"
	"github.com/matzehuels/ocrsynth/pkg/engine"
	"github.com/matzehuels/ocrsynth/pkg/errors"
	"github.com/matzehuels/ocrsynth/pkg/io"
	"github.com/matzehuels/ocrsynth/pkg/observability"
	"github.com/matzehuels/ocrsynth/pkg/profile"
	"github.com/matzehuels/ocrsynth/pkg/render"
)

// Runner encapsulates engine calls with encoding and caching.
//
// The Runner is stateless except for its collaborators. Multiple goroutines
// can safely use the same Runner.
type Runner struct {
	Engine *engine.Engine
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses DefaultKeyer and a nil logger discards output.
func NewRunner(e *engine.Engine, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(stdio.Discard, log.Options{})
	}
	return &Runner{
		Engine: e,
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// entry is the cached form of a Result.
type entry struct {
	Image      []byte        `json:"image"`
	Provenance io.Provenance `json:"provenance"`
}

// Synthesize produces an encoded image for (req, condition, seed), serving
// it from the cache when an identical synthesis was stored before.
func (r *Runner) Synthesize(ctx context.Context, req render.Request, condition string, seed uint64, format io.Format) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	hooks := observability.Synthesis()
	hooks.OnSynthesizeStart(ctx, condition, seed)

	res, err := r.synthesize(ctx, req, condition, seed, format)
	dur := time.Since(start)
	hooks.OnSynthesizeComplete(ctx, condition, seed, dur, err)
	if err != nil {
		return nil, err
	}
	res.Duration = dur
	return res, nil
}

func (r *Runner) synthesize(ctx context.Context, req render.Request, condition string, seed uint64, format io.Format) (*Result, error) {
	p, err := r.Engine.ResolveProfile(condition)
	if err != nil {
		return nil, err
	}
	f, err := io.ParseFormat(string(format))
	if err != nil {
		return nil, err
	}

	key := r.Keyer.ArtifactKey(cache.ArtifactKeyOpts{
		RequestHash: cache.HashJSON(req.WithDefaults()),
		Condition:   p.Name,
		ProfileHash: cache.HashJSON(fingerprint(p)),
		FontHash:    r.Engine.FontFingerprint(),
		Seed:        seed,
		Format:      string(f),
	})
	if res, ok := r.lookup(ctx, key); ok {
		r.Logger.Debug("cache hit", "condition", p.Name, "seed", seed)
		return res, nil
	}

	out, err := r.Engine.Synthesize(req, condition, seed)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := io.Encode(&buf, out.Canvas, f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode %s", f)
	}
	res := &Result{
		Image:      buf.Bytes(),
		Format:     f,
		Provenance: io.NewProvenance("", out, f),
	}
	r.Logger.Debug("synthesized",
		"condition", p.Name,
		"seed", seed,
		"size", out.Canvas.Bounds().Size(),
		"duration", out.Duration)

	r.store(ctx, key, res)
	return res, nil
}

// lookup returns a cached result. Backend and decode errors count as misses.
func (r *Runner) lookup(ctx context.Context, key string) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "artifact")
		return nil, false
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		r.Logger.Warn("discarding corrupt cache entry", "err", err)
		_ = r.Cache.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, "artifact")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "artifact")
	return &Result{Image: e.Image, Format: e.Provenance.Format, Provenance: e.Provenance, CacheHit: true}, true
}

// store writes res to the cache. Failures are logged, not returned: the
// result is already computed.
func (r *Runner) store(ctx context.Context, key string, res *Result) {
	data, err := json.Marshal(entry{Image: res.Image, Provenance: res.Provenance})
	if err != nil {
		r.Logger.Warn("encode cache entry", "err", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "artifact", len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

type stageFingerprint struct {
	Kind   string             `json:"kind"`
	Params map[string]float64 `json:"params"`
}

type profileFingerprint struct {
	Name   string             `json:"name"`
	Font   string             `json:"font"`
	Stages []stageFingerprint `json:"stages"`
}

// fingerprint is the hashable form of a profile. Parameter sets have no
// exported fields, so they are flattened to maps.
func fingerprint(p *profile.Profile) profileFingerprint {
	fp := profileFingerprint{Name: p.Name, Font: string(p.FontStyle), Stages: make([]stageFingerprint, len(p.Stages))}
	for i, s := range p.Stages {
		fp.Stages[i] = stageFingerprint{Kind: s.Kind.String(), Params: s.Params.Values()}
	}
	return fp
}
