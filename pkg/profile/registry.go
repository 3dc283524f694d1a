package profile

import (
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/ocrsynth/pkg/errors"
)

// Registry maps condition names to profiles.
//
// Registration belongs to initialisation. Once the registry is shared with
// concurrent readers, only Resolve, Names and Profiles may be called;
// concurrent Register calls are undefined.
type Registry struct {
	profiles map[string]*Profile
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{profiles: make(map[string]*Profile)}
}

// NewDefaultRegistry creates a registry holding the built-in profiles.
func NewDefaultRegistry() *Registry {
	r, err := NewRegistryWithBuiltins(DefaultSchemas())
	if err != nil {
		panic("profile: invalid built-in profiles: " + err.Error())
	}
	return r
}

// NewRegistryWithBuiltins creates a registry holding the built-in profiles
// with stage parameters taken from schemas (so overridden defaults apply).
func NewRegistryWithBuiltins(schemas Schemas) (*Registry, error) {
	builtins, err := Builtins(schemas)
	if err != nil {
		return nil, err
	}
	r := NewRegistry()
	for _, p := range builtins {
		if err := r.Register(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds p under p.Name. Registering an equal profile under an
// existing name is a no-op; a different profile fails with DUPLICATE_PROFILE.
func (r *Registry) Register(p *Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if existing, ok := r.profiles[p.Name]; ok {
		if existing.Equal(p) {
			return nil
		}
		return errors.New(errors.ErrCodeDuplicateProfile, "condition %q is already registered with different stages", p.Name)
	}
	r.profiles[p.Name] = p.Clone()
	return nil
}

// Resolve returns a copy of the profile registered under name, or an
// UNKNOWN_PROFILE error listing the known names.
func (r *Registry) Resolve(name string) (*Profile, error) {
	p, ok := r.profiles[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownProfile, "unknown condition %q (available: %s)", name, strings.Join(r.Names(), ", "))
	}
	return p.Clone(), nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.profiles))
}

// Profiles returns copies of every profile, sorted by name.
func (r *Registry) Profiles() []*Profile {
	out := make([]*Profile, 0, len(r.profiles))
	for _, name := range r.Names() {
		out = append(out, r.profiles[name].Clone())
	}
	return out
}

// Len returns the number of registered profiles.
func (r *Registry) Len() int { return len(r.profiles) }
