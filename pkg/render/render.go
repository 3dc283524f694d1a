package render

import (
	"image"
	"image/color"
	"math"
	"strings"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/ocrsynth/pkg/canvas"
	"github.com/matzehuels/ocrsynth/pkg/errors"
)

// Layout is the computed placement of a request's text.
type Layout struct {
	Lines      []string
	FontPixels float64
	LineHeight int // pixels between baselines
	Ascent     int
	BlockWidth int // widest line in pixels
	Width      int // canvas width
	Height     int // canvas height
	Origin     image.Point
}

// Render rasterizes req.Text with f onto a new canvas. The request is
// completed with defaults first; f must cover every non-space rune.
func Render(req Request, f *opentype.Font) (*canvas.Canvas, error) {
	req = req.WithDefaults()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if f == nil {
		return nil, errors.New(errors.ErrCodeRenderFailed, "no font handle for %s/%s", req.Language, req.Font)
	}

	face, err := newFace(req, f)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	lay, err := measure(req, f, face)
	if err != nil {
		return nil, err
	}

	c, err := canvas.New(lay.Width, lay.Height, req.DPI, req.Background)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "allocate %dx%d canvas", lay.Width, lay.Height)
	}

	d := &font.Drawer{
		Dst:  c.Gray(),
		Src:  image.NewUniform(color.Gray{Y: req.Ink}),
		Face: face,
	}
	for i, line := range lay.Lines {
		d.Dot = fixed.P(lay.Origin.X, lay.Origin.Y+lay.Ascent+i*lay.LineHeight)
		d.DrawString(line)
	}
	return c, nil
}

// Measure computes the layout Render would use without drawing.
func Measure(req Request, f *opentype.Font) (*Layout, error) {
	req = req.WithDefaults()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if f == nil {
		return nil, errors.New(errors.ErrCodeRenderFailed, "no font handle for %s/%s", req.Language, req.Font)
	}
	face, err := newFace(req, f)
	if err != nil {
		return nil, err
	}
	defer face.Close()
	return measure(req, f, face)
}

func newFace(req Request, f *opentype.Font) (font.Face, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    req.Size * req.Scale,
		DPI:     float64(req.DPI),
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "create %gpt face at %d dpi", req.Size*req.Scale, req.DPI)
	}
	return face, nil
}

func measure(req Request, f *opentype.Font, face font.Face) (*Layout, error) {
	if err := checkCoverage(req, f); err != nil {
		return nil, err
	}

	marginPx := int(math.Round(req.margin() * float64(req.DPI)))
	maxWidth := int(PageWidth*float64(req.DPI)) - 2*marginPx
	if req.Width > 0 {
		maxWidth = req.Width - 2*req.Padding
	}
	if maxWidth <= 0 {
		return nil, errors.New(errors.ErrCodeRenderFailed, "no horizontal room for text (usable width %d px)", maxWidth)
	}

	lines, err := wrap(req.Text, face, fixed.I(maxWidth))
	if err != nil {
		return nil, err
	}

	m := face.Metrics()
	lay := &Layout{
		Lines:      lines,
		FontPixels: req.FontPixels(),
		LineHeight: m.Height.Ceil(),
		Ascent:     m.Ascent.Ceil(),
	}
	for _, line := range lines {
		lay.BlockWidth = max(lay.BlockWidth, font.MeasureString(face, line).Ceil())
	}
	blockHeight := len(lines) * lay.LineHeight

	if req.Width > 0 {
		lay.Width = req.Width
		lay.Origin.X = (req.Width - lay.BlockWidth) / 2
	} else {
		lay.Width = max(lay.BlockWidth+2*marginPx, 1)
		lay.Origin.X = marginPx
	}

	if req.Height > 0 {
		usable := req.Height - 2*req.Padding
		if lay.LineHeight > usable {
			return nil, errors.New(errors.ErrCodeRenderFailed,
				"line height %d px exceeds usable canvas height %d px", lay.LineHeight, usable)
		}
		if blockHeight > usable {
			return nil, errors.New(errors.ErrCodeRenderFailed,
				"text needs %d lines (%d px) but the canvas fits %d px", len(lines), blockHeight, usable)
		}
		lay.Height = req.Height
		lay.Origin.Y = (req.Height - blockHeight) / 2
	} else {
		lay.Height = max(blockHeight+2*marginPx, 1)
		lay.Origin.Y = marginPx
	}
	if lay.Width > maxDim || lay.Height > maxDim {
		return nil, errors.New(errors.ErrCodeRenderFailed,
			"text needs a %dx%d px canvas, limit is %d px per side", lay.Width, lay.Height, maxDim)
	}
	return lay, nil
}

// checkCoverage fails on the first rune the font has no glyph for.
// Whitespace and control runes are exempt.
func checkCoverage(req Request, f *opentype.Font) error {
	var buf sfnt.Buffer
	for _, r := range req.Text {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			continue
		}
		idx, err := f.GlyphIndex(&buf, r)
		if err != nil {
			return errors.Wrap(errors.ErrCodeRenderFailed, err, "look up glyph for %q", r)
		}
		if idx == 0 {
			return errors.New(errors.ErrCodeRenderFailed,
				"font %s has no glyph for %q (U+%04X) in language %s", req.Font, r, r, req.Language)
		}
	}
	return nil
}

// wrap splits text into lines no wider than maxWidth. Paragraphs are
// separated by newlines; empty paragraphs produce empty lines.
func wrap(text string, face font.Face, maxWidth fixed.Int26_6) ([]string, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		var cur string
		for _, w := range words {
			if font.MeasureString(face, w) > maxWidth {
				t, err := truncate(w, face, maxWidth)
				if err != nil {
					return nil, err
				}
				w = t
			}
			if cur == "" {
				cur = w
				continue
			}
			if cand := cur + " " + w; font.MeasureString(face, cand) <= maxWidth {
				cur = cand
				continue
			}
			lines = append(lines, cur)
			cur = w
		}
		lines = append(lines, cur)
	}
	return lines, nil
}

// truncate drops trailing runes of word until it fits.
func truncate(word string, face font.Face, maxWidth fixed.Int26_6) (string, error) {
	runes := []rune(word)
	for n := len(runes) - 1; n > 0; n-- {
		if s := string(runes[:n]); font.MeasureString(face, s) <= maxWidth {
			return s, nil
		}
	}
	return "", errors.New(errors.ErrCodeRenderFailed,
		"canvas too narrow for a single glyph of %q (usable width %d px)", word, maxWidth.Ceil())
}
