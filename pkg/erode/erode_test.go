package erode

import (
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/ocrsynth/pkg/canvas"
	"github.com/matzehuels/ocrsynth/pkg/params"
)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// bar returns a canvas with ink rows [y0, y1) across its full width.
func bar(t *testing.T, bg, ink uint8, y0, y1 int) *canvas.Canvas {
	t.Helper()
	c, err := canvas.New(10, 30, 300, bg)
	if err != nil {
		t.Fatal(err)
	}
	for y := y0; y < y1; y++ {
		for x := 0; x < c.Width(); x++ {
			c.Set(x, y, ink)
		}
	}
	return c
}

func mustParams(t *testing.T, values map[string]float64) params.Set {
	t.Helper()
	ps, err := params.New(Schema, values)
	if err != nil {
		t.Fatalf("params.New() error: %v", err)
	}
	return ps
}

func TestApplyGapsEveryInkPixel(t *testing.T) {
	src := bar(t, canvas.White, canvas.Black, 10, 21)
	ps := mustParams(t, map[string]float64{
		GapProb: 1, GapMin: 2, GapMax: 2, InkJitter: 0, PaperProb: 0,
	})
	out, a := Apply(src, ps, newRand(1))

	// each ink pixel clears the two rows above it, so only the last row survives
	for x := 0; x < out.Width(); x++ {
		for y := 0; y < out.Height(); y++ {
			want := canvas.White
			if y == 20 {
				want = canvas.Black
			}
			if got := out.At(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %d, want %d", x, y, got, want)
			}
		}
	}
	if a.Gaps != 11*10 || a.InkPixels != 11*10 {
		t.Errorf("Applied = %+v, want 110 gaps over 110 ink pixels", a)
	}
}

func TestApplyNoOp(t *testing.T) {
	src := bar(t, canvas.White, canvas.Black, 5, 8)
	ps := mustParams(t, map[string]float64{GapProb: 0, InkJitter: 0, PaperProb: 0})
	out, a := Apply(src, ps, newRand(2))
	if !out.Equal(src) {
		t.Errorf("no-op erosion changed %d pixels", out.Diff(src))
	}
	if a.Gaps != 0 || a.PaperHits != 0 {
		t.Errorf("Applied = %+v, want no gaps or paper hits", a)
	}
}

func TestApplyJitterBounds(t *testing.T) {
	src := bar(t, 200, 50, 0, 30)
	ps := mustParams(t, map[string]float64{GapProb: 0, InkJitter: 20})
	out, _ := Apply(src, ps, newRand(3))
	for i, v := range out.Pix() {
		if v < 30 || v > 70 {
			t.Fatalf("pixel %d = %d, want within 50±20", i, v)
		}
	}
}

func TestApplyDarkPaper(t *testing.T) {
	src := bar(t, canvas.Black, canvas.White, 10, 12)
	ps := mustParams(t, map[string]float64{GapProb: 0, InkJitter: 0, PaperProb: 0})
	_, a := Apply(src, ps, newRand(4))
	if a.InkPixels != 2*10 {
		t.Errorf("InkPixels = %d on dark paper, want 20", a.InkPixels)
	}
}

func TestApplyDeterministic(t *testing.T) {
	src := bar(t, canvas.White, canvas.Black, 10, 20)
	ps := Schema.Defaults()
	a, da := Apply(src, ps, newRand(5))
	b, db := Apply(src, ps, newRand(5))
	if !a.Equal(b) || da != db {
		t.Error("same seed produced different erosion")
	}
	if src.At(0, 10) != canvas.Black {
		t.Error("Apply() modified its input canvas")
	}
}

func TestSchemaRejectsInvertedGap(t *testing.T) {
	if _, err := params.New(Schema, map[string]float64{GapMin: 4, GapMax: 2}); err == nil {
		t.Error("gap_min > gap_max should be rejected")
	}
}
