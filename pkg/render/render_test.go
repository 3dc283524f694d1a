package render

import (
	"strings"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/matzehuels/ocrsynth/pkg/canvas"
	"github.com/matzehuels/ocrsynth/pkg/errors"
)

func regular(t *testing.T) *opentype.Font {
	t.Helper()
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		t.Fatalf("parse goregular: %v", err)
	}
	return f
}

func hello() Request {
	return Request{Text: "HELLO", Width: 200, Height: 60, DPI: 150}
}

func TestRenderFixedCanvas(t *testing.T) {
	c, err := Render(hello(), regular(t))
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if c.Width() != 200 || c.Height() != 60 {
		t.Errorf("size = %dx%d, want 200x60", c.Width(), c.Height())
	}
	if c.DPI() != 150 {
		t.Errorf("DPI = %d, want 150", c.DPI())
	}
	if c.Background() != canvas.White {
		t.Errorf("Background = %d, want %d", c.Background(), canvas.White)
	}

	ink, ok := c.InkBounds(128)
	if !ok {
		t.Fatal("expected ink on the canvas")
	}
	// centred block: roughly equal space left and right
	left, right := ink.Min.X, c.Width()-ink.Max.X
	if d := left - right; d < -6 || d > 6 {
		t.Errorf("ink not centred horizontally: left=%d right=%d", left, right)
	}
	for _, p := range [][2]int{{0, 0}, {199, 0}, {0, 59}, {199, 59}} {
		if v := c.At(p[0], p[1]); v != canvas.White {
			t.Errorf("corner %v = %d, want background", p, v)
		}
	}
}

func TestRenderDeterministic(t *testing.T) {
	f := regular(t)
	a, err := Render(hello(), f)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Render(hello(), f)
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Errorf("two renders differ in %d pixels", a.Diff(b))
	}
}

func TestRenderAutoSize(t *testing.T) {
	f := regular(t)
	req := Request{Text: "HELLO", DPI: 100}
	lay, err := Measure(req, f)
	if err != nil {
		t.Fatalf("Measure() error: %v", err)
	}
	margin := 50 // 0.5in at 100dpi
	if lay.Width != lay.BlockWidth+2*margin {
		t.Errorf("Width = %d, want block %d + 2*%d", lay.Width, lay.BlockWidth, margin)
	}
	if lay.Height != lay.LineHeight+2*margin {
		t.Errorf("Height = %d, want line %d + 2*%d", lay.Height, lay.LineHeight, margin)
	}
	if lay.Origin.X != margin || lay.Origin.Y != margin {
		t.Errorf("Origin = %v, want (%d,%d)", lay.Origin, margin, margin)
	}

	c, err := Render(req, f)
	if err != nil {
		t.Fatal(err)
	}
	if c.Width() != lay.Width || c.Height() != lay.Height {
		t.Errorf("canvas %dx%d does not match layout %dx%d", c.Width(), c.Height(), lay.Width, lay.Height)
	}
}

func TestRenderZeroMargin(t *testing.T) {
	lay, err := Measure(Request{Text: "HELLO", DPI: 100, Margin: Inches(0)}, regular(t))
	if err != nil {
		t.Fatalf("Measure() error: %v", err)
	}
	if lay.Width != lay.BlockWidth || lay.Height != lay.LineHeight {
		t.Errorf("size = %dx%d, want tight %dx%d", lay.Width, lay.Height, lay.BlockWidth, lay.LineHeight)
	}
	if lay.Origin.X != 0 || lay.Origin.Y != 0 {
		t.Errorf("Origin = %v, want (0,0)", lay.Origin)
	}
}

func TestRenderDarkPaper(t *testing.T) {
	req := hello()
	req.Background, req.Ink = 0, 255
	c, err := Render(req, regular(t))
	if err != nil {
		t.Fatal(err)
	}
	if c.At(0, 0) != 0 {
		t.Errorf("corner = %d, want 0", c.At(0, 0))
	}
	if _, ok := c.InkBounds(128); !ok {
		t.Error("expected light ink on dark paper")
	}
}

func TestMeasureWrap(t *testing.T) {
	f := regular(t)
	tests := []struct {
		name      string
		text      string
		width     int
		wantLines int
	}{
		{"single line", "HELLO", 200, 1},
		{"wraps words", "one two three four five six", 120, 2},
		{"explicit newlines", "a\n\nb", 200, 3},
		{"crlf", "a\r\nb", 200, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lay, err := Measure(Request{Text: tt.text, Width: tt.width, DPI: 100}, f)
			if err != nil {
				t.Fatalf("Measure() error: %v", err)
			}
			if len(lay.Lines) < tt.wantLines {
				t.Errorf("lines = %q, want at least %d", lay.Lines, tt.wantLines)
			}
			if lay.BlockWidth > tt.width {
				t.Errorf("BlockWidth = %d exceeds canvas width %d", lay.BlockWidth, tt.width)
			}
		})
	}
}

func TestMeasureKeepsWordOrder(t *testing.T) {
	text := "alpha beta gamma delta epsilon zeta"
	lay, err := Measure(Request{Text: text, Width: 150, DPI: 100}, regular(t))
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(lay.Lines, " "); got != text {
		t.Errorf("rejoined lines = %q, want %q", got, text)
	}
}

func TestMeasureTruncatesLongWord(t *testing.T) {
	word := strings.Repeat("W", 40)
	lay, err := Measure(Request{Text: word, Width: 100, DPI: 100}, regular(t))
	if err != nil {
		t.Fatalf("Measure() error: %v", err)
	}
	if len(lay.Lines) != 1 {
		t.Fatalf("lines = %q, want one", lay.Lines)
	}
	got := lay.Lines[0]
	if got == "" || len(got) >= len(word) || !strings.HasPrefix(word, got) {
		t.Errorf("truncated line = %q, want a non-empty prefix of the word", got)
	}
}

func TestRenderFailures(t *testing.T) {
	f := regular(t)
	tests := []struct {
		name string
		req  Request
	}{
		{"missing glyph", Request{Text: "漢字", Width: 200, Height: 60, DPI: 150}},
		{"line taller than canvas", Request{Text: "HELLO", Width: 200, Height: 10, DPI: 150}},
		{"block taller than canvas", Request{Text: strings.Repeat("lorem ipsum ", 40), Width: 200, Height: 60, DPI: 150}},
		{"too narrow for one glyph", Request{Text: "W", Width: 2, Height: 60, DPI: 150}},
		{"padding eats width", Request{Text: "HELLO", Width: 20, Height: 60, Padding: 10, DPI: 150}},
		{"auto height over limit", Request{Text: strings.Repeat("x\n", 2000)}},
		{"auto width over limit", Request{Text: strings.Repeat("W", 500), DPI: 2400}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Render(tt.req, f)
			if !errors.Is(err, errors.ErrCodeRenderFailed) {
				t.Errorf("Render() error = %v, want RENDER_FAILED", err)
			}
		})
	}

	if _, err := Render(hello(), nil); !errors.Is(err, errors.ErrCodeRenderFailed) {
		t.Errorf("nil font error = %v, want RENDER_FAILED", err)
	}
}

func TestMeasureBoundsAutoSize(t *testing.T) {
	f := regular(t)
	lay, err := Measure(Request{Text: strings.Repeat("x\n", 100)}, f)
	if err != nil {
		t.Fatalf("Measure() error: %v", err)
	}
	if lay.Height > maxDim {
		t.Errorf("Height = %d, over the %d px limit", lay.Height, maxDim)
	}

	_, err = Measure(Request{Text: strings.Repeat("x\n", 2000)}, f)
	if !errors.Is(err, errors.ErrCodeRenderFailed) {
		t.Errorf("Measure() error = %v, want RENDER_FAILED for an oversized auto canvas", err)
	}
}

func TestRequestDefaults(t *testing.T) {
	r := Request{Text: "x"}.WithDefaults()
	if r.Size != DefaultSize || r.DPI != DefaultDPI || r.Scale != DefaultScale || r.Margin == nil || *r.Margin != DefaultMargin {
		t.Errorf("defaults not applied: %+v", r)
	}
	if r.Background != canvas.White || r.Ink != canvas.Black {
		t.Errorf("colours = %d/%d, want white paper and black ink", r.Background, r.Ink)
	}
	if r.Language != "eng" || r.Font != "default" {
		t.Errorf("language/font = %q/%q", r.Language, r.Font)
	}

	custom := Request{Text: "x", Background: 200, Ink: 0}.WithDefaults()
	if custom.Background != 200 || custom.Ink != 0 {
		t.Errorf("explicit background overwritten: %+v", custom)
	}
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr bool
	}{
		{"defaults", Request{Text: "x"}, false},
		{"negative width", Request{Width: -1}, true},
		{"huge canvas", Request{Width: 50000}, true},
		{"dpi too high", Request{DPI: 9600}, true},
		{"negative size", Request{Size: -3}, true},
		{"negative scale", Request{Scale: -1}, true},
		{"negative padding", Request{Padding: -1}, true},
		{"negative margin", Request{Margin: Inches(-0.1)}, true},
		{"zero margin", Request{Margin: Inches(0)}, false},
		{"ink equals paper", Request{Background: 128, Ink: 128}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.WithDefaults().Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Validate() code = %s, want INVALID_INPUT", errors.GetCode(err))
			}
		})
	}
}

func TestFontPixels(t *testing.T) {
	r := Request{Size: 12, DPI: 300, Scale: 1}
	if got := r.FontPixels(); got != 50 {
		t.Errorf("FontPixels() = %g, want 50", got)
	}
}
