// Package profile defines condition profiles and the registry that names them.
//
// # Overview
//
// A [Profile] is a named, ordered list of stages. The first stage always
// renders the text; the remaining stages degrade the rendered canvas in the
// exact order given, so [distort, noise] and [noise, distort] are different
// conditions.
//
// # Registry
//
// A [Registry] maps names to profiles. It is built once at startup, typically
// with [NewDefaultRegistry] plus any custom profiles from configuration, and
// is read-only afterwards. Register must not be called concurrently with
// Resolve; the registry takes no locks.
//
// Built-in profiles:
//   - minimal: render only
//   - blackletter: historic face at 1.2x size, no degradation
//   - distorted: render, then skew/shear/warp
//   - noisy: render, then salt-and-pepper noise
//   - scanned: render, distort, then stroke erosion
package profile

import (
	"slices"

	"github.com/matzehuels/ocrsynth/pkg/errors"
	"github.com/matzehuels/ocrsynth/pkg/fonts"
)

// Profile is a named degradation condition.
//
// Profiles returned by [New] and [Registry.Resolve] are independent copies;
// modifying one never affects the registry.
type Profile struct {
	Name        string
	Description string
	FontStyle   fonts.Style
	Stages      []Stage
}

// New builds a validated profile using the built-in schemas. A render stage
// with default parameters is prepended when stages does not start with one.
func New(name string, style fonts.Style, stages ...Stage) (*Profile, error) {
	if len(stages) == 0 || stages[0].Kind != StageRender {
		stages = append([]Stage{{Kind: StageRender, Params: DefaultSchemas()[StageRender].Defaults()}}, stages...)
	}
	if style == "" {
		style = fonts.StyleRegular
	}
	p := &Profile{Name: name, FontStyle: style, Stages: slices.Clone(stages)}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// WithDescription returns a copy of p with the description set.
func (p *Profile) WithDescription(d string) *Profile {
	c := p.Clone()
	c.Description = d
	return c
}

// Validate checks the profile invariants: a valid name, a known font style,
// exactly one render stage in first position and parameters that belong to
// each stage's kind.
func (p *Profile) Validate() error {
	if p == nil {
		return errors.New(errors.ErrCodeInvalidProfile, "profile is nil")
	}
	if err := errors.ValidateProfileName(p.Name); err != nil {
		return err
	}
	if _, err := fonts.ParseStyle(string(p.FontStyle)); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidProfile, err, "profile %q", p.Name)
	}
	if len(p.Stages) == 0 {
		return errors.New(errors.ErrCodeInvalidProfile, "profile %q has no stages", p.Name)
	}
	for i, s := range p.Stages {
		if !s.Kind.Valid() {
			return errors.New(errors.ErrCodeInvalidProfile, "profile %q: stage %d has unknown kind %d", p.Name, i, int(s.Kind))
		}
		if (s.Kind == StageRender) != (i == 0) {
			return errors.New(errors.ErrCodeInvalidProfile, "profile %q: render must be the first and only render stage (found %s at %d)", p.Name, s.Kind, i)
		}
		if s.Params.Stage() != s.Kind.String() {
			return errors.New(errors.ErrCodeInvalidProfile, "profile %q: stage %d (%s) carries %q parameters", p.Name, i, s.Kind, s.Params.Stage())
		}
	}
	return nil
}

// Render returns the profile's render stage.
func (p *Profile) Render() Stage {
	return p.Stages[0]
}

// Degradations returns the stages applied after rendering.
func (p *Profile) Degradations() []Stage {
	return slices.Clone(p.Stages[1:])
}

// Kinds returns the stage kinds in order.
func (p *Profile) Kinds() []StageKind {
	out := make([]StageKind, len(p.Stages))
	for i, s := range p.Stages {
		out[i] = s.Kind
	}
	return out
}

// Equal reports whether two profiles describe the same condition.
func (p *Profile) Equal(o *Profile) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.Name == o.Name && p.Description == o.Description && p.FontStyle == o.FontStyle &&
		slices.EqualFunc(p.Stages, o.Stages, Stage.Equal)
}

// Clone returns a copy that shares no slices with p. Parameter sets are
// immutable and are shared.
func (p *Profile) Clone() *Profile {
	c := *p
	c.Stages = slices.Clone(p.Stages)
	return &c
}
