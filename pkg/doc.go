// Package pkg provides the libraries behind ocrsynth, a synthesizer of
// degraded text images for OCR training and test corpora.
//
// # Overview
//
// A synthesis renders text onto a grayscale canvas and then applies the
// ordered degradation stages of a named condition profile under one seeded
// random source. The same (request, condition, seed) always produces the
// same pixels. The pkg directory is organized into three areas:
//
//  1. Core - the pure degradation pipeline ([engine], [render], [distort],
//     [noise], [erode], [profile])
//  2. Adapters - everything with side effects ([pipeline], [io], [cache],
//     [server], [config])
//  3. Shared - value types and cross-cutting concerns ([canvas], [params],
//     [fonts], [errors], [observability], [httputil], [buildinfo])
//
// # Architecture
//
// The data flow of one synthesis:
//
//	render.Request + condition + seed
//	         ↓
//	    [profile] registry (resolve condition → ordered stages)
//	         ↓
//	    [render] (text → canvas, wrap/truncate, font by language and style)
//	         ↓
//	    [distort] / [noise] / [erode] (one stage at a time, shared RNG)
//	         ↓
//	    [io] (PNG/TIFF + provenance JSON)
//
// # Quick Start
//
//	e := engine.New(profile.NewDefaultRegistry(), fonts.NewLibrary())
//	res, err := e.Synthesize(render.Request{Text: "HELLO", Width: 200, Height: 60}, "noisy", 7)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	io.WriteImage("hello.png", res.Canvas, io.FormatPNG)
//
// # Main Packages
//
// ## Core
//
// [engine] - The two entry points: ResolveProfile and Synthesize. Pure, no
// I/O, safe for concurrent use.
//
// [profile] - Condition profiles (ordered stages with validated parameters),
// the closed set of stage kinds and the registry with the built-in
// conditions minimal, blackletter, distorted, noisy and scanned.
//
// [render] - Glyph rendering with greedy word wrap, per-line truncation and
// glyph coverage checks.
//
// [distort] - Skew, shear and sinusoidal warp with bilinear resampling.
//
// [noise] - Salt-and-pepper noise.
//
// [erode] - Broken and uneven strokes of worn print.
//
// ## Adapters
//
// [pipeline] - Runner (engine + encoding + cache + logging) and concurrent
// batches with per-item seeds and a manifest.
//
// [cache] - Artifact cache: file, Redis and null backends.
//
// [server] - HTTP API over the runner.
//
// [config] - TOML configuration: default overrides, custom profiles, fonts.
//
// [engine]: https://pkg.go.dev/github.com/matzehuels/ocrsynth/pkg/engine
// [profile]: https://pkg.go.dev/github.com/matzehuels/ocrsynth/pkg/profile
// [render]: https://pkg.go.dev/github.com/matzehuels/ocrsynth/pkg/render
// [distort]: https://pkg.go.dev/github.com/matzehuels/ocrsynth/pkg/distort
// [noise]: https://pkg.go.dev/github.com/matzehuels/ocrsynth/pkg/noise
// [erode]: https://pkg.go.dev/github.com/matzehuels/ocrsynth/pkg/erode
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/ocrsynth/pkg/pipeline
// [io]: https://pkg.go.dev/github.com/matzehuels/ocrsynth/pkg/io
// [cache]: https://pkg.go.dev/github.com/matzehuels/ocrsynth/pkg/cache
// [server]: https://pkg.go.dev/github.com/matzehuels/ocrsynth/pkg/server
// [config]: https://pkg.go.dev/github.com/matzehuels/ocrsynth/pkg/config
// [canvas]: https://pkg.go.dev/github.com/matzehuels/ocrsynth/pkg/canvas
// [params]: https://pkg.go.dev/github.com/matzehuels/ocrsynth/pkg/params
// [fonts]: https://pkg.go.dev/github.com/matzehuels/ocrsynth/pkg/fonts
// [errors]: https://pkg.go.dev/github.com/matzehuels/ocrsynth/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/ocrsynth/pkg/observability
// [httputil]: https://pkg.go.dev/github.com/matzehuels/ocrsynth/pkg/httputil
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/ocrsynth/pkg/buildinfo
package pkg
