// Package config loads the optional TOML configuration file.
//
// A config file overrides stage parameter defaults, defines custom condition
// profiles and registers font files:
//
//	[defaults.noise]
//	density = 0.01
//
//	[[profile]]
//	name = "faded-fraktur"
//	description = "blackletter with light speckle"
//	font = "blackletter"
//
//	[[profile.stage]]
//	kind = "noise"
//	params = { density = 0.002 }
//
//	[[font]]
//	language = "deu"
//	style = "blackletter"
//	path = "fonts/UnifrakturMaguntia.ttf"
//
// Overridden defaults apply to built-in and custom profiles alike. Relative
// font paths resolve against the config file's directory.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/ocrsynth/pkg/errors"
	"github.com/matzehuels/ocrsynth/pkg/fonts"
	"github.com/matzehuels/ocrsynth/pkg/profile"
)

// FileName is the config file name inside the config directory.
const FileName = "config.toml"

// Config is the decoded file.
type Config struct {
	Defaults map[string]map[string]float64 `toml:"defaults"`
	Profiles []Profile                     `toml:"profile"`
	Fonts    []Font                        `toml:"font"`

	// dir is the directory relative font paths resolve against.
	dir string
}

// Profile is a custom condition profile.
type Profile struct {
	Name        string  `toml:"name"`
	Description string  `toml:"description"`
	Font        string  `toml:"font"`
	Stages      []Stage `toml:"stage"`
}

// Stage is one stage of a custom profile. Omitted params take defaults.
type Stage struct {
	Kind   string             `toml:"kind"`
	Params map[string]float64 `toml:"params"`
}

// Font registers a TrueType/OpenType file for a language and style.
// Language "*" applies to every language.
type Font struct {
	Language string `toml:"language"`
	Style    string `toml:"style"`
	Path     string `toml:"path"`
}

// DefaultPath returns $XDG_CONFIG_HOME/ocrsynth/config.toml, falling back to
// the OS user config directory.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		var err error
		if dir, err = os.UserConfigDir(); err != nil {
			return "", err
		}
	}
	return filepath.Join(dir, "ocrsynth", FileName), nil
}

// Parse decodes TOML data. Unknown keys are rejected so typos in parameter
// tables do not pass silently.
func Parse(data []byte, dir string) (*Config, error) {
	var c Config
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown config key %q", undecoded[0].String())
	}
	c.dir = dir
	return &c, nil
}

// Load reads and parses the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s does not exist", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}
	return Parse(data, filepath.Dir(path))
}

// LoadOptional loads path, or the default path when path is empty. A missing
// default file yields an empty config; a missing explicit file is an error.
func LoadOptional(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	def, err := DefaultPath()
	if err != nil {
		return &Config{}, nil
	}
	c, err := Load(def)
	if errors.Is(err, errors.ErrCodeFileNotFound) {
		return &Config{}, nil
	}
	return c, err
}

// Schemas returns the built-in schemas with the configured defaults applied.
func (c *Config) Schemas() (profile.Schemas, error) {
	overrides := make(map[profile.StageKind]map[string]float64, len(c.Defaults))
	for name, values := range c.Defaults {
		kind, err := profile.ParseStageKind(name)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidParameter, err, "[defaults.%s]", name)
		}
		overrides[kind] = values
	}
	return profile.DefaultSchemas().WithDefaults(overrides)
}

// Registry builds a registry holding the built-ins and the custom profiles,
// all parameterised by the configured defaults.
func (c *Config) Registry() (*profile.Registry, error) {
	schemas, err := c.Schemas()
	if err != nil {
		return nil, err
	}
	reg, err := profile.NewRegistryWithBuiltins(schemas)
	if err != nil {
		return nil, err
	}
	for _, cp := range c.Profiles {
		p, err := cp.build(schemas)
		if err != nil {
			return nil, err
		}
		if err := reg.Register(p); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func (cp Profile) build(schemas profile.Schemas) (*profile.Profile, error) {
	style := fonts.StyleRegular
	if cp.Font != "" {
		s, err := fonts.ParseStyle(cp.Font)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidProfile, err, "profile %q", cp.Name)
		}
		style = s
	}

	stages := make([]profile.Stage, 0, len(cp.Stages)+1)
	for i, cs := range cp.Stages {
		kind, err := profile.ParseStageKind(cs.Kind)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidProfile, err, "profile %q stage %d", cp.Name, i)
		}
		s, err := schemas.Stage(kind, cs.Params)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidParameter, err, "profile %q stage %d", cp.Name, i)
		}
		stages = append(stages, s)
	}
	if len(stages) == 0 || stages[0].Kind != profile.StageRender {
		r, err := schemas.Stage(profile.StageRender, nil)
		if err != nil {
			return nil, err
		}
		stages = append([]profile.Stage{r}, stages...)
	}

	p, err := profile.New(cp.Name, style, stages...)
	if err != nil {
		return nil, err
	}
	return p.WithDescription(cp.Description), nil
}

// FontLibrary returns a library with the configured fonts registered.
func (c *Config) FontLibrary() (*fonts.Library, error) {
	lib := fonts.NewLibrary()
	for _, f := range c.Fonts {
		path := f.Path
		if !filepath.IsAbs(path) && c.dir != "" {
			path = filepath.Join(c.dir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "font %s", path)
		}
		lang := f.Language
		if lang == "" {
			lang = "*"
		}
		style := fonts.Style(f.Style)
		if style == "" {
			style = fonts.StyleRegular
		}
		if err := lib.Register(lang, style, data); err != nil {
			return nil, err
		}
	}
	return lib, nil
}
