package config

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/gomono"

	"github.com/matzehuels/ocrsynth/pkg/errors"
	"github.com/matzehuels/ocrsynth/pkg/fonts"
	"github.com/matzehuels/ocrsynth/pkg/profile"
)

const sample = `
[defaults.noise]
density = 0.01

[[profile]]
name = "faded-fraktur"
description = "blackletter with light speckle"
font = "blackletter"

[[profile.stage]]
kind = "noise"
params = { density = 0.002 }

[[profile]]
name = "skew-then-speckle"

[[profile.stage]]
kind = "distort"
params = { skew_min = -1, skew_max = 1 }

[[profile.stage]]
kind = "noise"
`

func TestRegistry(t *testing.T) {
	c, err := Parse([]byte(sample), "")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	reg, err := c.Registry()
	if err != nil {
		t.Fatalf("Registry() error: %v", err)
	}
	if reg.Len() != 7 {
		t.Errorf("Len() = %d, want 5 built-ins + 2 custom", reg.Len())
	}

	noisy, err := reg.Resolve(profile.Noisy)
	if err != nil {
		t.Fatal(err)
	}
	if got := noisy.Stages[1].Params.Get("density"); got != 0.01 {
		t.Errorf("noisy density = %g, want overridden 0.01", got)
	}

	ff, err := reg.Resolve("faded-fraktur")
	if err != nil {
		t.Fatal(err)
	}
	if ff.FontStyle != fonts.StyleBlackletter || ff.Description == "" {
		t.Errorf("faded-fraktur = %+v", ff)
	}
	if got := ff.Stages[1].Params.Get("density"); got != 0.002 {
		t.Errorf("explicit density = %g, want 0.002", got)
	}

	ss, err := reg.Resolve("skew-then-speckle")
	if err != nil {
		t.Fatal(err)
	}
	kinds := ss.Kinds()
	if len(kinds) != 3 || kinds[0] != profile.StageRender || kinds[1] != profile.StageDistort || kinds[2] != profile.StageNoise {
		t.Errorf("Kinds() = %v", kinds)
	}
	if got := ss.Stages[2].Params.Get("density"); got != 0.01 {
		t.Errorf("omitted density = %g, want configured default 0.01", got)
	}
}

func TestInvalid(t *testing.T) {
	tests := []struct {
		name string
		toml string
		code errors.Code
	}{
		{"syntax", "[defaults", errors.ErrCodeInvalidFormat},
		{"unknown key", "[[profile]]\nname = \"x\"\ncolour = 1\n", errors.ErrCodeInvalidFormat},
		{"unknown stage default", "[defaults.blur]\nradius = 1\n", errors.ErrCodeInvalidParameter},
		{"out of range default", "[defaults.noise]\ndensity = 3\n", errors.ErrCodeInvalidParameter},
		{"unknown param", "[defaults.noise]\nspeckle = 1\n", errors.ErrCodeInvalidParameter},
		{"unknown kind", "[[profile]]\nname = \"x\"\n[[profile.stage]]\nkind = \"blur\"\n", errors.ErrCodeInvalidProfile},
		{"bad font", "[[profile]]\nname = \"x\"\nfont = \"gothic\"\n", errors.ErrCodeInvalidProfile},
		{"reversed skew", "[[profile]]\nname = \"x\"\n[[profile.stage]]\nkind = \"distort\"\nparams = { skew_min = 2, skew_max = 1 }\n", errors.ErrCodeInvalidParameter},
		{"builtin clash", "[[profile]]\nname = \"noisy\"\n", errors.ErrCodeDuplicateProfile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse([]byte(tt.toml), "")
			if err == nil {
				_, err = c.Registry()
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestFontLibrary(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "mono.ttf"), gomono.TTF, 0644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, FileName)
	body := "[[font]]\nlanguage = \"deu\"\nstyle = \"blackletter\"\npath = \"mono.ttf\"\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	lib, err := c.FontLibrary()
	if err != nil {
		t.Fatalf("FontLibrary() error: %v", err)
	}
	deu, err := lib.Font("deu", fonts.StyleBlackletter)
	if err != nil {
		t.Fatal(err)
	}
	eng, err := lib.Font("eng", fonts.StyleBlackletter)
	if err != nil {
		t.Fatal(err)
	}
	if deu == eng {
		t.Error("registered font not used for deu")
	}

	missing := &Config{Fonts: []Font{{Path: "nope.ttf"}}, dir: dir}
	if _, err := missing.FontLibrary(); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing font error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadOptional(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	c, err := LoadOptional("")
	if err != nil {
		t.Fatalf("LoadOptional(\"\") error: %v", err)
	}
	reg, err := c.Registry()
	if err != nil || reg.Len() != 5 {
		t.Errorf("empty config registry = %v, %v", reg, err)
	}

	if _, err := LoadOptional(filepath.Join(t.TempDir(), "absent.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("explicit missing config error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	got, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/xdg", "ocrsynth", "config.toml"); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}
