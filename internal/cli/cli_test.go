package cli

import (
	"bytes"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ocrsynth/pkg/errors"
	"github.com/matzehuels/ocrsynth/pkg/io"
	"github.com/matzehuels/ocrsynth/pkg/profile"
)

func run(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c := New(&bytes.Buffer{}, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	return root.Execute()
}

func TestRootCommand(t *testing.T) {
	root := New(&bytes.Buffer{}, log.InfoLevel).RootCommand()
	for _, name := range []string{"synth", "batch", "profiles", "serve", "cache", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestSynthCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "hello.png")
	err := run(t, "synth", "HELLO", "-c", "noisy", "--seed", "7",
		"--width", "200", "--height", "60", "--dpi", "150", "-o", out, "--sidecar")
	if err != nil {
		t.Fatalf("synth error: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 60 {
		t.Errorf("image size = %v, want 200x60", b.Size())
	}

	prov, err := io.ImportProvenance(io.SidecarPath(out))
	if err != nil {
		t.Fatal(err)
	}
	if prov.Condition != "noisy" || prov.Seed != 7 {
		t.Errorf("provenance = %+v", prov)
	}
}

func TestSynthCommandErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"unknown condition", []string{"synth", "HELLO", "-c", "nope", "-o", filepath.Join(dir, "a.png")}, errors.ErrCodeUnknownProfile},
		{"bad extension", []string{"synth", "HELLO", "-o", filepath.Join(dir, "a.jpg")}, errors.ErrCodeInvalidFormat},
		{"missing glyph", []string{"synth", "漢字", "-o", filepath.Join(dir, "b.png")}, errors.ErrCodeRenderFailed},
		{"arg and file", []string{"synth", "HELLO", "-f", "x.txt"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := run(t, tt.args...); !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestBatchCommand(t *testing.T) {
	in := filepath.Join(t.TempDir(), "lines.txt")
	if err := os.WriteFile(in, []byte("ALPHA\nBRAVO\n"), 0644); err != nil {
		t.Fatal(err)
	}
	out := t.TempDir()
	if err := run(t, "batch", in, "-c", "distorted", "-o", out, "-j", "2", "--format", "tiff", "--dpi", "100"); err != nil {
		t.Fatalf("batch error: %v", err)
	}
	for _, name := range []string{"line-0001.tiff", "line-0002.tiff", "line-0001.json", "manifest.csv"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing output %s", name)
		}
	}
}

func TestProfilesCommandWithConfig(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "config.toml")
	body := "[[profile]]\nname = \"speckle\"\n[[profile.stage]]\nkind = \"noise\"\nparams = { density = 0.1 }\n"
	if err := os.WriteFile(cfg, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	c := New(&bytes.Buffer{}, log.InfoLevel)
	c.configPath = cfg
	e, err := c.newEngine()
	if err != nil {
		t.Fatalf("newEngine() error: %v", err)
	}
	p, err := e.ResolveProfile("speckle")
	if err != nil {
		t.Fatal(err)
	}
	views := profileViews([]*profile.Profile{p})
	data, err := json.Marshal(views)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`"density":0.1`)) {
		t.Errorf("profile view = %s", data)
	}
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		flag, output string
		want         io.Format
		ok           bool
	}{
		{"", "a.png", io.FormatPNG, true},
		{"", "a.tif", io.FormatTIFF, true},
		{"", "noext", io.FormatPNG, true},
		{"tiff", "a.png", io.FormatTIFF, true},
		{"", "a.jpg", "", false},
	}
	for _, tt := range tests {
		got, err := resolveFormat(tt.flag, tt.output)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("resolveFormat(%q, %q) = %q, %v", tt.flag, tt.output, got, err)
		}
	}
}

func TestResolveOutput(t *testing.T) {
	tests := []struct {
		flag, output, condition string
		wantPath                string
		wantFormat              io.Format
	}{
		{"", "", "noisy", "noisy.png", io.FormatPNG},
		{"tiff", "", "noisy", "noisy.tiff", io.FormatTIFF},
		{"tif", "", "scanned", "scanned.tiff", io.FormatTIFF},
		{"", "page.tif", "noisy", "page.tif", io.FormatTIFF},
	}
	for _, tt := range tests {
		path, f, err := resolveOutput(tt.flag, tt.output, tt.condition)
		if err != nil || path != tt.wantPath || f != tt.wantFormat {
			t.Errorf("resolveOutput(%q, %q, %q) = %q, %q, %v", tt.flag, tt.output, tt.condition, path, f, err)
		}
	}
	if _, _, err := resolveOutput("gif", "", "noisy"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("resolveOutput(gif) error = %v, want INVALID_FORMAT", err)
	}
}

func TestSynthCommandDefaultOutputFollowsFormat(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := run(t, "synth", "HELLO", "--format", "tiff", "--width", "200", "--height", "60", "--dpi", "150"); err != nil {
		t.Fatalf("synth error: %v", err)
	}
	data, err := os.ReadFile("minimal.tiff")
	if err != nil {
		t.Fatalf("default output not written: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("II*\x00")) && !bytes.HasPrefix(data, []byte("MM\x00*")) {
		t.Errorf("minimal.tiff does not hold TIFF data (header % x)", data[:min(4, len(data))])
	}
	if _, err := os.Stat("minimal.png"); !os.IsNotExist(err) {
		t.Errorf("unexpected minimal.png, stat error = %v", err)
	}
}
