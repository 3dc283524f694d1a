// Package noise injects salt-and-pepper noise into a canvas.
//
// Every pixel is visited in row-major order and flipped with probability
// density. A flipped pixel becomes salt (white) with probability salt_ratio
// and pepper (black) otherwise. The visit order and the two draws per flip
// are fixed, so a seeded random source fully determines the result.
package noise

import (
	"math/rand/v2"

	"github.com/matzehuels/ocrsynth/pkg/canvas"
	"github.com/matzehuels/ocrsynth/pkg/params"
)

// Parameter names.
const (
	Density   = "density"
	SaltRatio = "salt_ratio"
)

// Schema declares the noise parameters.
var Schema = params.Schema{
	Stage: "noise",
	Specs: []params.Spec{
		{Name: Density, Min: 0, Max: 1, Default: 0.0045, Doc: "probability that a pixel is flipped"},
		{Name: SaltRatio, Min: 0, Max: 1, Default: 0.5, Doc: "fraction of flipped pixels that become white"},
	},
}

// Applied counts the pixels one call flipped.
type Applied struct {
	Salt   int
	Pepper int
}

// Drawn returns the counts keyed by name, for provenance records.
func (a Applied) Drawn() map[string]float64 {
	return map[string]float64{"salt": float64(a.Salt), "pepper": float64(a.Pepper)}
}

// Apply returns a noisy copy of c. The input canvas is not modified.
// With density 0 the copy is identical and rng is not consumed.
func Apply(c *canvas.Canvas, ps params.Set, rng *rand.Rand) (*canvas.Canvas, Applied) {
	out := c.Clone()
	density, salt := ps.Get(Density), ps.Get(SaltRatio)
	if density == 0 {
		return out, Applied{}
	}

	var a Applied
	pix := out.Pix()
	for i := range pix {
		if rng.Float64() >= density {
			continue
		}
		if rng.Float64() < salt {
			pix[i] = canvas.White
			a.Salt++
		} else {
			pix[i] = canvas.Black
			a.Pepper++
		}
	}
	return out, a
}
