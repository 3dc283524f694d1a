package io

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/tiff"

	"github.com/matzehuels/ocrsynth/pkg/canvas"
	"github.com/matzehuels/ocrsynth/pkg/engine"
	"github.com/matzehuels/ocrsynth/pkg/errors"
	"github.com/matzehuels/ocrsynth/pkg/fonts"
	"github.com/matzehuels/ocrsynth/pkg/profile"
	"github.com/matzehuels/ocrsynth/pkg/render"
)

func sample() *canvas.Canvas {
	c, err := canvas.New(16, 8, 150, canvas.White)
	if err != nil {
		panic(err)
	}
	for x := 2; x < 14; x++ {
		c.Set(x, 4, canvas.Black)
	}
	c.Set(0, 0, 128)
	return c
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"", FormatPNG, true},
		{"png", FormatPNG, true},
		{"PNG", FormatPNG, true},
		{"tif", FormatTIFF, true},
		{"tiff", FormatTIFF, true},
		{"jpeg", "", false},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.ok != (err == nil) || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
		if !tt.ok && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ParseFormat(%q) error = %v, want INVALID_FORMAT", tt.in, err)
		}
	}

	if f, err := FormatFromPath("out/a.tif"); err != nil || f != FormatTIFF {
		t.Errorf("FormatFromPath(a.tif) = %q, %v", f, err)
	}
	if FormatTIFF.Extension() != ".tiff" || FormatPNG.ContentType() != "image/png" {
		t.Error("unexpected extension or content type")
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	decoders := map[Format]func(*bytes.Buffer) (image.Image, error){
		FormatPNG:  func(b *bytes.Buffer) (image.Image, error) { return png.Decode(b) },
		FormatTIFF: func(b *bytes.Buffer) (image.Image, error) { return tiff.Decode(b) },
	}
	c := sample()
	for _, f := range Formats {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, c, f); err != nil {
				t.Fatalf("Encode() error: %v", err)
			}
			img, err := decoders[f](&buf)
			if err != nil {
				t.Fatalf("decode error: %v", err)
			}
			got, err := canvas.FromGray(toGray(img), c.DPI(), c.Background())
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(c) {
				t.Errorf("round trip differs in %d pixels", got.Diff(c))
			}
		})
	}

	if err := Encode(&bytes.Buffer{}, c, Format("bmp")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Encode(bmp) error = %v, want INVALID_FORMAT", err)
	}
}

func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	g := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g.Set(x, y, img.At(x, y))
		}
	}
	return g
}

func TestWriteImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "a.png")
	if err := WriteImage(path, sample(), FormatPNG); err != nil {
		t.Fatalf("WriteImage() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("file is not a PNG")
	}
}

func TestProvenanceRoundTrip(t *testing.T) {
	e := engine.New(profile.NewDefaultRegistry(), fonts.NewLibrary())
	res, err := e.Synthesize(render.Request{Text: "HELLO", Width: 200, Height: 60, DPI: 150}, profile.Noisy, 5)
	if err != nil {
		t.Fatal(err)
	}

	p := NewProvenance("item-1", res, FormatPNG)
	if len(p.Stages) != 2 || p.Stages[1].Kind != "noise" {
		t.Fatalf("Stages = %+v", p.Stages)
	}
	if p.Stages[1].Params["density"] != 0.0045 {
		t.Errorf("noise density = %g", p.Stages[1].Params["density"])
	}
	if p.Width != 200 || p.Height != 60 || p.Language != fonts.DefaultLanguage {
		t.Errorf("unexpected geometry/language: %+v", p)
	}

	path := filepath.Join(t.TempDir(), "item-1.json")
	if err := ExportProvenance(path, p); err != nil {
		t.Fatalf("ExportProvenance() error: %v", err)
	}
	got, err := ImportProvenance(path)
	if err != nil {
		t.Fatalf("ImportProvenance() error: %v", err)
	}
	if got.Seed != 5 || got.Condition != profile.Noisy || got.Text != "HELLO" || len(got.Stages) != 2 {
		t.Errorf("ImportProvenance() = %+v", got)
	}
	if got.Stages[1].Drawn["salt"] != p.Stages[1].Drawn["salt"] {
		t.Error("drawn values not preserved")
	}
}

func TestSidecarPath(t *testing.T) {
	if got := SidecarPath("out/a.b.png"); got != "out/a.b.json" {
		t.Errorf("SidecarPath() = %q", got)
	}
}

func TestReadLines(t *testing.T) {
	items, err := ReadLines(strings.NewReader("first line\n\n  second  \r\nthird"))
	if err != nil {
		t.Fatal(err)
	}
	want := []Item{{"line-0001", "first line"}, {"line-0003", "second"}, {"line-0004", "third"}}
	if len(items) != len(want) {
		t.Fatalf("ReadLines() = %v", items)
	}
	for i := range want {
		if items[i] != want[i] {
			t.Errorf("item %d = %+v, want %+v", i, items[i], want[i])
		}
	}
}

func TestReadCSV(t *testing.T) {
	in := "title,caption\nDie Zeitung,\"Guten Morgen, Welt\"\n,Zweite\n"
	items, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	want := []Item{
		{"0_title", "Die Zeitung"},
		{"0_caption", "Guten Morgen, Welt"},
		{"1_caption", "Zweite"},
	}
	if len(items) != len(want) {
		t.Fatalf("ReadCSV() = %v", items)
	}
	for i := range want {
		if items[i] != want[i] {
			t.Errorf("item %d = %+v, want %+v", i, items[i], want[i])
		}
	}

	if items, err := ReadCSV(strings.NewReader("")); err != nil || items != nil {
		t.Errorf("empty csv = %v, %v", items, err)
	}
	if _, err := ReadCSV(strings.NewReader("a\n\"unterminated\n")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("malformed csv error = %v, want INVALID_FORMAT", err)
	}
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestReadDir(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"b.txt":       "  bravo\n",
		"a.txt":       "alpha",
		"empty.txt":   "   ",
		"notes.md":    "ignored",
		"sub/c.txt":   "charlie",
		"sub/d/e.txt": "echo",
	})

	flat, err := ReadDir(dir, LoadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(flat) != 2 || flat[0] != (Item{"a", "alpha"}) || flat[1] != (Item{"b", "bravo"}) {
		t.Errorf("ReadDir() = %v", flat)
	}

	deep, err := ReadDir(dir, LoadOptions{Recursive: true})
	if err != nil {
		t.Fatal(err)
	}
	ids := make([]string, len(deep))
	for i, it := range deep {
		ids[i] = it.ID
	}
	if got := strings.Join(ids, ","); got != "a,b,sub_c,sub_d_e" {
		t.Errorf("recursive ids = %s", got)
	}

	md, err := ReadDir(dir, LoadOptions{Pattern: "*.md"})
	if err != nil || len(md) != 1 || md[0].ID != "notes" {
		t.Errorf("ReadDir(*.md) = %v, %v", md, err)
	}
	if _, err := ReadDir(dir, LoadOptions{Pattern: "["}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad pattern error = %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"in.csv":   "text\nhello\n",
		"in.lines": "one\ntwo\n",
		"d/x.txt":  "x",
	})

	tests := []struct {
		path string
		ids  []string
	}{
		{"in.csv", []string{"0_text"}},
		{"in.lines", []string{"line-0001", "line-0002"}},
		{"d", []string{"x"}},
	}
	for _, tt := range tests {
		items, err := Load(filepath.Join(dir, tt.path), LoadOptions{})
		if err != nil {
			t.Errorf("Load(%s) error: %v", tt.path, err)
			continue
		}
		if len(items) != len(tt.ids) {
			t.Errorf("Load(%s) = %v", tt.path, items)
			continue
		}
		for i, id := range tt.ids {
			if items[i].ID != id {
				t.Errorf("Load(%s)[%d].ID = %q, want %q", tt.path, i, items[i].ID, id)
			}
		}
	}

	if _, err := Load(filepath.Join(dir, "missing"), LoadOptions{}); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestManifestRoundTrip(t *testing.T) {
	entries := []ManifestEntry{
		{ID: "a", File: "a.png", Condition: "noisy", Seed: 1 << 40, Text: "Guten Morgen, Welt"},
		{ID: "b", Condition: "noisy", Seed: 2, Text: "漢字", Error: "RENDER_FAILED: no glyph"},
	}
	path := filepath.Join(t.TempDir(), "manifest.csv")
	if err := ExportManifest(path, entries); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	got, err := ReadManifest(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != entries[0] || got[1] != entries[1] {
		t.Errorf("ReadManifest() = %+v", got)
	}
}
