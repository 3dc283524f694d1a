package distort

import (
	"math"

	"github.com/matzehuels/ocrsynth/pkg/canvas"
)

const (
	fracBits = 16
	one      = int64(1) << fracBits
	half     = one >> 1
)

// transform is the quantised inverse mapping from destination to source.
type transform struct {
	cos, sin int64 // rotation, 16.16
	shear    int64 // 16.16
	cx, cy   int64 // centre, 16.16
	warp     []int64
}

func quantise(v float64) int64 {
	return int64(math.Round(v * float64(one)))
}

func newTransform(w, h int, a Applied, amplitude, frequency float64) *transform {
	sin, cos := math.Sincos(a.Angle * math.Pi / 180)
	t := &transform{
		cos:   quantise(cos),
		sin:   quantise(sin),
		shear: quantise(a.Shear),
		cx:    int64(w) << (fracBits - 1),
		cy:    int64(h) << (fracBits - 1),
		warp:  make([]int64, w),
	}
	if amplitude > 0 && frequency > 0 {
		for x := range t.warp {
			// explicit conversions keep multiply and add unfused
			theta := float64(float64(2*math.Pi*frequency)*(float64(x)+0.5))/float64(w) + a.Phase
			t.warp[x] = quantise(float64(amplitude * math.Sin(theta)))
		}
	}
	return t
}

// source maps the centre of destination pixel (x, y) to a source position
// in 16.16 pixel-index coordinates.
func (t *transform) source(x, y int) (sx, sy int64) {
	px := int64(x)<<fracBits + half
	py := int64(y)<<fracBits + half

	py -= t.warp[x]
	px -= (t.shear * (py - t.cy)) >> fracBits

	dx, dy := px-t.cx, py-t.cy
	sx = (t.cos*dx+t.sin*dy)>>fracBits + t.cx
	sy = (t.cos*dy-t.sin*dx)>>fracBits + t.cy
	return sx - half, sy - half
}

// remap fills dst by sampling src through the transform.
func (t *transform) remap(dst, src *canvas.Canvas) {
	bg := int64(src.Background())
	w, h := src.Width(), src.Height()
	pix := src.Pix()
	at := func(x, y int64) int64 {
		if x < 0 || y < 0 || x >= int64(w) || y >= int64(h) {
			return bg
		}
		return int64(pix[y*int64(w)+x])
	}

	for y := 0; y < dst.Height(); y++ {
		row := dst.Row(y)
		for x := range row {
			sx, sy := t.source(x, y)
			ix, iy := sx>>fracBits, sy>>fracBits
			fx, fy := sx&(one-1), sy&(one-1)

			top := at(ix, iy)*(one-fx) + at(ix+1, iy)*fx
			bot := at(ix, iy+1)*(one-fx) + at(ix+1, iy+1)*fx
			v := (top*(one-fy) + bot*fy + one*half) >> (2 * fracBits)
			row[x] = canvas.Clamp(int(v))
		}
	}
}
