// Package distort applies seeded geometric distortion to a canvas.
//
// A distortion is a rotation (skew) about the canvas centre, a horizontal
// shear and a sinusoidal vertical warp that emulates paper curvature. The
// three random quantities are drawn from the caller's random source in a
// fixed order (angle, shear, warp phase), so the same canvas, parameters and
// seed always produce the same output.
//
// The output is computed by inverse mapping each destination pixel into the
// source with bilinear sampling. All per-pixel arithmetic is 16.16 fixed
// point; trigonometric values are evaluated once per call and quantised, so
// results do not depend on floating-point contraction or platform libm
// differences in the inner loop. Samples that fall outside the source take
// the background intensity.
package distort

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/ocrsynth/pkg/canvas"
	"github.com/matzehuels/ocrsynth/pkg/errors"
	"github.com/matzehuels/ocrsynth/pkg/params"
)

// Parameter names.
const (
	SkewMin       = "skew_min"
	SkewMax       = "skew_max"
	ShearMin      = "shear_min"
	ShearMax      = "shear_max"
	WarpAmplitude = "warp_amplitude"
	WarpFrequency = "warp_frequency"
)

// Schema declares the distortion parameters. Angles are in degrees,
// amplitude in pixels and frequency in cycles per canvas width.
var Schema = params.Schema{
	Stage: "distort",
	Specs: []params.Spec{
		{Name: SkewMin, Min: -45, Max: 45, Default: -2, Doc: "lower bound of the skew angle (degrees)"},
		{Name: SkewMax, Min: -45, Max: 45, Default: 2, Doc: "upper bound of the skew angle (degrees)"},
		{Name: ShearMin, Min: -0.5, Max: 0.5, Default: 0, Doc: "lower bound of the horizontal shear factor"},
		{Name: ShearMax, Min: -0.5, Max: 0.5, Default: 0, Doc: "upper bound of the horizontal shear factor"},
		{Name: WarpAmplitude, Min: 0, Max: 20, Default: 1, Doc: "peak vertical displacement of the warp (pixels)"},
		{Name: WarpFrequency, Min: 0, Max: 10, Default: 1, Doc: "warp cycles across the canvas width"},
	},
	Check: params.Ordered([2]string{SkewMin, SkewMax}, [2]string{ShearMin, ShearMax}),
}

// Applied records the random draws of one distortion.
type Applied struct {
	Angle float64 // degrees, positive is clockwise on screen
	Shear float64
	Phase float64 // radians
}

// Drawn returns the draws keyed by name, for provenance records.
func (a Applied) Drawn() map[string]float64 {
	return map[string]float64{"angle": a.Angle, "shear": a.Shear, "phase": a.Phase}
}

// Apply returns a distorted copy of c. The input canvas is not modified.
//
// It fails with DISTORTION_FAILED when the skew range excludes zero and
// rotating the ink by the smallest angle in the range already pushes it
// past the canvas edges.
func Apply(c *canvas.Canvas, ps params.Set, rng *rand.Rand) (*canvas.Canvas, Applied, error) {
	if ps.Stage() != Schema.Stage {
		return nil, Applied{}, errors.New(errors.ErrCodeInternal, "distort: got %q parameters", ps.Stage())
	}
	lo, hi := ps.Get(SkewMin), ps.Get(SkewMax)
	if err := checkFrame(c, lo, hi); err != nil {
		return nil, Applied{}, err
	}

	a := Applied{
		Angle: uniform(rng, lo, hi),
		Shear: uniform(rng, ps.Get(ShearMin), ps.Get(ShearMax)),
		Phase: rng.Float64() * 2 * math.Pi,
	}

	out, err := canvas.New(c.Width(), c.Height(), c.DPI(), c.Background())
	if err != nil {
		return nil, Applied{}, errors.Wrap(errors.ErrCodeInternal, err, "allocate distortion output")
	}
	t := newTransform(c.Width(), c.Height(), a, ps.Get(WarpAmplitude), ps.Get(WarpFrequency))
	t.remap(out, c)
	return out, a, nil
}

// uniform draws from [lo, hi). The float64 conversion rounds the product
// before the add so no platform fuses it into an FMA.
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + float64(rng.Float64()*(hi-lo))
}

// checkFrame rejects skew ranges that cannot keep the ink inside the frame.
func checkFrame(c *canvas.Canvas, lo, hi float64) error {
	if lo <= 0 && hi >= 0 {
		return nil
	}
	ink, ok := c.InkBounds(0)
	if !ok {
		return nil
	}
	angle := lo
	if hi < 0 {
		angle = hi
	}
	rad := angle * math.Pi / 180
	sin, cos := math.Sincos(rad)
	cx, cy := float64(c.Width())/2, float64(c.Height())/2
	corners := [4][2]float64{
		{float64(ink.Min.X), float64(ink.Min.Y)},
		{float64(ink.Max.X), float64(ink.Min.Y)},
		{float64(ink.Min.X), float64(ink.Max.Y)},
		{float64(ink.Max.X), float64(ink.Max.Y)},
	}
	for _, p := range corners {
		dx, dy := p[0]-cx, p[1]-cy
		x := cx + float64(cos*dx) - float64(sin*dy)
		y := cy + float64(sin*dx) + float64(cos*dy)
		if x < 0 || y < 0 || x > float64(c.Width()) || y > float64(c.Height()) {
			return errors.New(errors.ErrCodeDistortionFailed,
				"skew range [%g, %g] rotates content out of the %dx%d frame; narrow the range or add padding",
				lo, hi, c.Width(), c.Height())
		}
	}
	return nil
}
