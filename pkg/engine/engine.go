// Package engine runs condition profiles: it renders text and applies each
// degradation stage in order under one seeded random source.
//
// # Entry Points
//
// The engine has exactly two operations, and adapters (CLI, HTTP, batch
// runner) go through them only:
//
//   - [Engine.ResolveProfile] looks a condition up by name
//   - [Engine.Synthesize] produces a degraded image for (request, condition, seed)
//
// [Engine.FontFingerprint] and [Engine.Conditions] are read-only accessors
// for cache keys and listings.
//
// # Determinism
//
// A synthesis creates one random source from the seed and threads it through
// every stochastic stage in profile order. Identical (request, condition,
// seed) triples yield bit-identical canvases.
//
// # Concurrency
//
// The engine holds no mutable state. Synthesize may be called from any
// number of goroutines once the registry is fully populated; every call owns
// its canvas and random source.
//
// The engine does no I/O, never logs and never retries. Errors go back to the
// caller unchanged in classification, and a failed synthesis returns no
// partial result.
package engine

import (
	"math/rand/v2"
	"time"

	"github.com/matzehuels/ocrsynth/pkg/canvas"
	"github.com/matzehuels/ocrsynth/pkg/distort"
	"github.com/matzehuels/ocrsynth/pkg/erode"
	"github.com/matzehuels/ocrsynth/pkg/errors"
	"github.com/matzehuels/ocrsynth/pkg/fonts"
	"github.com/matzehuels/ocrsynth/pkg/noise"
	"github.com/matzehuels/ocrsynth/pkg/params"
	"github.com/matzehuels/ocrsynth/pkg/profile"
	"github.com/matzehuels/ocrsynth/pkg/render"
)

// RandSource creates a reproducible generator from a seed.
type RandSource func(seed uint64) *rand.Rand

// NewRand is the default RandSource: a PCG generator keyed by the seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// Option configures an Engine.
type Option func(*Engine)

// WithRandSource replaces the random-source factory.
func WithRandSource(f RandSource) Option {
	return func(e *Engine) {
		if f != nil {
			e.rand = f
		}
	}
}

// Engine synthesizes degraded text images.
type Engine struct {
	registry *profile.Registry
	fonts    fonts.Provider
	rand     RandSource
}

// New creates an engine over a populated registry and a font provider.
func New(reg *profile.Registry, fp fonts.Provider, opts ...Option) *Engine {
	e := &Engine{registry: reg, fonts: fp, rand: NewRand}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ResolveProfile returns the named condition, or UNKNOWN_PROFILE.
func (e *Engine) ResolveProfile(name string) (*profile.Profile, error) {
	return e.registry.Resolve(name)
}

// FontFingerprint identifies the faces the engine renders with, or "" when
// the font provider cannot tell. Adapters fold it into cache keys.
func (e *Engine) FontFingerprint() string {
	if fp, ok := e.fonts.(fonts.Fingerprinter); ok {
		return fp.Fingerprint()
	}
	return ""
}

// Conditions returns the registered condition names in sorted order.
func (e *Engine) Conditions() []string {
	return e.registry.Names()
}

// AppliedStage records one executed stage.
type AppliedStage struct {
	Kind   profile.StageKind
	Params params.Set
	Drawn  map[string]float64 // random draws and counts observed while applying
}

// Result is a completed synthesis. The caller owns Canvas.
type Result struct {
	Canvas    *canvas.Canvas
	Condition string
	Seed      uint64
	Request   render.Request // effective request, defaults applied
	FontStyle fonts.Style
	Stages    []AppliedStage
	Duration  time.Duration
}

// Synthesize renders req and applies the stages of condition under seed.
//
// Errors: UNKNOWN_PROFILE for an unregistered condition, INVALID_INPUT for
// a malformed request, RENDER_FAILED and DISTORTION_FAILED from the stages.
func (e *Engine) Synthesize(req render.Request, condition string, seed uint64) (*Result, error) {
	start := time.Now()
	p, err := e.ResolveProfile(condition)
	if err != nil {
		return nil, err
	}

	r := &run{engine: e, profile: p, seed: seed, state: StateInit}
	c, err := r.execute(req)
	if err != nil {
		return nil, err
	}
	return &Result{
		Canvas:    c,
		Condition: p.Name,
		Seed:      seed,
		Request:   r.request,
		FontStyle: r.style,
		Stages:    r.applied,
		Duration:  time.Since(start),
	}, nil
}

// apply dispatches one degradation stage.
func apply(c *canvas.Canvas, s profile.Stage, rng *rand.Rand) (*canvas.Canvas, map[string]float64, error) {
	switch s.Kind {
	case profile.StageDistort:
		out, a, err := distort.Apply(c, s.Params, rng)
		if err != nil {
			return nil, nil, err
		}
		return out, a.Drawn(), nil
	case profile.StageNoise:
		out, a := noise.Apply(c, s.Params, rng)
		return out, a.Drawn(), nil
	case profile.StageErode:
		out, a := erode.Apply(c, s.Params, rng)
		return out, a.Drawn(), nil
	case profile.StageRender:
		return nil, nil, errors.New(errors.ErrCodeInternal, "render stage after rendering")
	}
	return nil, nil, errors.New(errors.ErrCodeInternal, "no implementation for stage kind %s", s.Kind)
}
