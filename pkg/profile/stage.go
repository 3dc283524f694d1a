package profile

import (
	"maps"
	"slices"

	"github.com/matzehuels/ocrsynth/pkg/distort"
	"github.com/matzehuels/ocrsynth/pkg/erode"
	"github.com/matzehuels/ocrsynth/pkg/errors"
	"github.com/matzehuels/ocrsynth/pkg/noise"
	"github.com/matzehuels/ocrsynth/pkg/params"
	"github.com/matzehuels/ocrsynth/pkg/render"
)

// StageKind identifies a pipeline step. The set is closed: adding a kind
// means adding a schema here and a case to the engine's dispatch switch.
type StageKind int

const (
	StageRender StageKind = iota
	StageDistort
	StageNoise
	StageErode
)

// StageKinds lists every kind in declaration order.
var StageKinds = []StageKind{StageRender, StageDistort, StageNoise, StageErode}

var kindNames = [...]string{
	StageRender:  "render",
	StageDistort: "distort",
	StageNoise:   "noise",
	StageErode:   "erode",
}

func (k StageKind) String() string {
	if !k.Valid() {
		return "unknown"
	}
	return kindNames[k]
}

// Valid reports whether k is one of the declared kinds.
func (k StageKind) Valid() bool {
	return k >= 0 && int(k) < len(kindNames)
}

// ParseStageKind converts a stage name to its kind.
func ParseStageKind(s string) (StageKind, error) {
	for _, k := range StageKinds {
		if kindNames[k] == s {
			return k, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidProfile, "unknown stage kind %q (must be one of: render, distort, noise, erode)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k StageKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidProfile, "invalid stage kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *StageKind) UnmarshalText(b []byte) error {
	v, err := ParseStageKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Stage is one step of a profile with its validated parameters.
type Stage struct {
	Kind   StageKind
	Params params.Set
}

// Equal reports whether both stages have the same kind and parameter values.
func (s Stage) Equal(o Stage) bool {
	return s.Kind == o.Kind && s.Params.Equal(o.Params)
}

// Schemas maps each stage kind to its parameter schema. Config files can
// override defaults; ranges are fixed.
type Schemas map[StageKind]params.Schema

// DefaultSchemas returns the built-in schema of every stage kind.
func DefaultSchemas() Schemas {
	return Schemas{
		StageRender:  render.Schema,
		StageDistort: distort.Schema,
		StageNoise:   noise.Schema,
		StageErode:   erode.Schema,
	}
}

// Schema returns the built-in schema for kind.
func Schema(kind StageKind) (params.Schema, bool) {
	s, ok := DefaultSchemas()[kind]
	return s, ok
}

// Lookup returns the schema for kind, or an INVALID_PROFILE error.
func (s Schemas) Lookup(kind StageKind) (params.Schema, error) {
	sc, ok := s[kind]
	if !ok {
		return params.Schema{}, errors.New(errors.ErrCodeInvalidProfile, "no schema for stage kind %s", kind)
	}
	return sc, nil
}

// WithDefaults returns a copy of s where the given parameter defaults are
// replaced. Overrides are validated against the declared ranges.
func (s Schemas) WithDefaults(overrides map[StageKind]map[string]float64) (Schemas, error) {
	out := maps.Clone(s)
	for _, kind := range slices.Sorted(maps.Keys(overrides)) {
		sc, err := s.Lookup(kind)
		if err != nil {
			return nil, err
		}
		updated, err := sc.WithDefaults(overrides[kind])
		if err != nil {
			return nil, err
		}
		out[kind] = updated
	}
	return out, nil
}

// Stage builds a stage of kind from values, validated against its schema.
func (s Schemas) Stage(kind StageKind, values map[string]float64) (Stage, error) {
	sc, err := s.Lookup(kind)
	if err != nil {
		return Stage{}, err
	}
	ps, err := params.New(sc, values)
	if err != nil {
		return Stage{}, err
	}
	return Stage{Kind: kind, Params: ps}, nil
}
