// Package erode simulates worn print: broken strokes and uneven ink.
//
// The canvas is scanned column by column, top to bottom. Each ink pixel may
// open a short vertical gap directly above it (painted with the background)
// and always receives a random intensity jitter. Paper pixels occasionally
// receive a smaller jitter. Gaps are painted over rows that were already
// visited, so they are not revisited within the same pass.
package erode

import (
	"math/rand/v2"

	"github.com/matzehuels/ocrsynth/pkg/canvas"
	"github.com/matzehuels/ocrsynth/pkg/params"
)

// Parameter names.
const (
	GapProb      = "gap_prob"
	GapMin       = "gap_min"
	GapMax       = "gap_max"
	InkJitter    = "ink_jitter"
	PaperProb    = "paper_prob"
	PaperJitter  = "paper_jitter"
	InkThreshold = "ink_threshold"
)

// Schema declares the erosion parameters.
var Schema = params.Schema{
	Stage: "erode",
	Specs: []params.Spec{
		{Name: GapProb, Min: 0, Max: 1, Default: 0.15, Doc: "probability that an ink pixel opens a gap above it"},
		{Name: GapMin, Min: 0, Max: 10, Default: 1, Doc: "shortest gap (pixels)"},
		{Name: GapMax, Min: 0, Max: 10, Default: 3, Doc: "longest gap (pixels)"},
		{Name: InkJitter, Min: 0, Max: 128, Default: 30, Doc: "maximum intensity change of ink pixels"},
		{Name: PaperProb, Min: 0, Max: 1, Default: 0.05, Doc: "probability that a paper pixel is jittered"},
		{Name: PaperJitter, Min: 0, Max: 128, Default: 10, Doc: "maximum intensity change of paper pixels"},
		{Name: InkThreshold, Min: 0, Max: 255, Default: 100, Doc: "pixels darker than this (lighter on dark paper) count as ink"},
	},
	Check: params.Ordered([2]string{GapMin, GapMax}),
}

// Applied counts what one call changed.
type Applied struct {
	Gaps      int
	InkPixels int
	PaperHits int
}

// Drawn returns the counts keyed by name, for provenance records.
func (a Applied) Drawn() map[string]float64 {
	return map[string]float64{
		"gaps":       float64(a.Gaps),
		"ink_pixels": float64(a.InkPixels),
		"paper_hits": float64(a.PaperHits),
	}
}

// Apply returns an eroded copy of c. The input canvas is not modified.
func Apply(c *canvas.Canvas, ps params.Set, rng *rand.Rand) (*canvas.Canvas, Applied) {
	out := c.Clone()
	var (
		gapProb   = ps.Get(GapProb)
		gapMin    = ps.Int(GapMin)
		gapSpan   = ps.Int(GapMax) - gapMin + 1
		inkJit    = ps.Int(InkJitter)
		paperProb = ps.Get(PaperProb)
		paperJit  = ps.Int(PaperJitter)
		isInk     = inkTest(c.Background(), uint8(ps.Int(InkThreshold)))
		bg        = c.Background()
		a         Applied
	)

	for x := 0; x < out.Width(); x++ {
		for y := 0; y < out.Height(); y++ {
			v := out.At(x, y)
			if isInk(v) {
				a.InkPixels++
				if rng.Float64() < gapProb {
					gap := gapMin + rng.IntN(gapSpan)
					for k := max(0, y-gap); k < y; k++ {
						out.Set(x, k, bg)
					}
					a.Gaps++
				}
				out.Set(x, y, jitter(rng, v, inkJit))
				continue
			}
			if rng.Float64() < paperProb {
				out.Set(x, y, jitter(rng, v, paperJit))
				a.PaperHits++
			}
		}
	}
	return out, a
}

// inkTest classifies pixels relative to the paper tone.
func inkTest(background, threshold uint8) func(uint8) bool {
	if background >= 128 {
		return func(v uint8) bool { return v < threshold }
	}
	return func(v uint8) bool { return v > 255-threshold }
}

func jitter(rng *rand.Rand, v uint8, amount int) uint8 {
	return canvas.Clamp(int(v) + rng.IntN(2*amount+1) - amount)
}
