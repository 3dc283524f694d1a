// Package params implements validated, immutable parameter sets for
// pipeline stages.
//
// Each stage declares a [Schema]: the numeric knobs it understands, their
// valid [Min, Max] ranges and defaults. A [Set] can only be obtained through
// [New] (or [Schema.Defaults]), which rejects unknown names, NaN and
// out-of-range values. Range violations therefore surface when a profile is
// built, never when a stage runs.
//
// # Usage
//
//	set, err := params.New(noise.Schema, map[string]float64{"density": 0.02})
//	if err != nil {
//	    return err // INVALID_PARAMETER
//	}
//	density := set.Get("density")
package params

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/ocrsynth/pkg/errors"
)

// Spec declares a single numeric parameter.
type Spec struct {
	Name    string
	Min     float64
	Max     float64
	Default float64
	Doc     string
}

// Contains reports whether v lies within [Min, Max].
func (s Spec) Contains(v float64) bool {
	return !math.IsNaN(v) && v >= s.Min && v <= s.Max
}

// Schema declares the parameters of one stage kind.
type Schema struct {
	// Stage names the stage kind this schema belongs to (e.g. "noise").
	Stage string
	// Specs lists parameters in display order.
	Specs []Spec
	// Check validates cross-parameter rules after range checks pass.
	Check func(Set) error
}

// Lookup returns the spec for name.
func (s Schema) Lookup(name string) (Spec, bool) {
	for _, sp := range s.Specs {
		if sp.Name == name {
			return sp, true
		}
	}
	return Spec{}, false
}

// Defaults returns the set with every parameter at its default.
func (s Schema) Defaults() Set {
	set, err := New(s, nil)
	if err != nil {
		// Defaults are validated by WithDefaults and by package tests.
		panic(fmt.Sprintf("params: invalid defaults for %s: %v", s.Stage, err))
	}
	return set
}

// WithDefaults returns a copy of the schema whose defaults are replaced by
// overrides. Overrides are range-checked against the declared specs.
func (s Schema) WithDefaults(overrides map[string]float64) (Schema, error) {
	out := s
	out.Specs = slices.Clone(s.Specs)
	for _, name := range slices.Sorted(maps.Keys(overrides)) {
		i := slices.IndexFunc(out.Specs, func(sp Spec) bool { return sp.Name == name })
		if i < 0 {
			return Schema{}, unknownParam(s, name)
		}
		v := overrides[name]
		if !out.Specs[i].Contains(v) {
			return Schema{}, outOfRange(s.Stage, out.Specs[i], v)
		}
		out.Specs[i].Default = v
	}
	if _, err := New(out, nil); err != nil {
		return Schema{}, err
	}
	return out, nil
}

// Set is an immutable, validated mapping of parameter names to values.
// The zero Set is empty and belongs to no stage.
type Set struct {
	stage  string
	names  []string
	values map[string]float64
}

// New validates values against schema and fills omitted parameters with
// their defaults. Unknown names, NaN and out-of-range values fail with
// INVALID_PARAMETER.
func New(schema Schema, values map[string]float64) (Set, error) {
	for _, name := range slices.Sorted(maps.Keys(values)) {
		if _, ok := schema.Lookup(name); !ok {
			return Set{}, unknownParam(schema, name)
		}
	}

	set := Set{
		stage:  schema.Stage,
		names:  make([]string, 0, len(schema.Specs)),
		values: make(map[string]float64, len(schema.Specs)),
	}
	for _, sp := range schema.Specs {
		v, ok := values[sp.Name]
		if !ok {
			v = sp.Default
		}
		if !sp.Contains(v) {
			return Set{}, outOfRange(schema.Stage, sp, v)
		}
		set.names = append(set.names, sp.Name)
		set.values[sp.Name] = v
	}

	if schema.Check != nil {
		if err := schema.Check(set); err != nil {
			return Set{}, err
		}
	}
	return set, nil
}

// Stage returns the stage kind name the set was validated for.
func (s Set) Stage() string { return s.stage }

// Get returns the value for name, or 0 when the set has no such parameter.
func (s Set) Get(name string) float64 { return s.values[name] }

// Lookup returns the value for name and whether it is declared.
func (s Set) Lookup(name string) (float64, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Int returns the value for name rounded to the nearest integer.
func (s Set) Int(name string) int { return int(math.Round(s.values[name])) }

// Names returns parameter names in schema order.
func (s Set) Names() []string { return slices.Clone(s.names) }

// Len returns the number of parameters.
func (s Set) Len() int { return len(s.names) }

// Values returns a copy of the parameter map.
func (s Set) Values() map[string]float64 { return maps.Clone(s.values) }

// Equal reports whether both sets belong to the same stage and hold the same values.
func (s Set) Equal(o Set) bool {
	return s.stage == o.stage && maps.Equal(s.values, o.values)
}

// String formats the set as "name=value" pairs in schema order.
func (s Set) String() string {
	parts := make([]string, len(s.names))
	for i, n := range s.names {
		parts[i] = n + "=" + strconv.FormatFloat(s.values[n], 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}

// Ordered returns a Check that requires lo <= hi.
func Ordered(pairs ...[2]string) func(Set) error {
	return func(s Set) error {
		for _, p := range pairs {
			if s.Get(p[0]) > s.Get(p[1]) {
				return errors.New(errors.ErrCodeInvalidParameter,
					"%s: %s (%g) must not exceed %s (%g)", s.stage, p[0], s.Get(p[0]), p[1], s.Get(p[1]))
			}
		}
		return nil
	}
}

func unknownParam(s Schema, name string) error {
	known := make([]string, len(s.Specs))
	for i, sp := range s.Specs {
		known[i] = sp.Name
	}
	return errors.New(errors.ErrCodeInvalidParameter,
		"%s: unknown parameter %q (known: %s)", s.Stage, name, strings.Join(known, ", "))
}

func outOfRange(stage string, sp Spec, v float64) error {
	return errors.New(errors.ErrCodeInvalidParameter,
		"%s: %s = %g outside [%g, %g]", stage, sp.Name, v, sp.Min, sp.Max)
}
