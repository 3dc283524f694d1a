package profile

import (
	"github.com/matzehuels/ocrsynth/pkg/fonts"
)

// Built-in condition names.
const (
	Minimal     = "minimal"
	Blackletter = "blackletter"
	Distorted   = "distorted"
	Noisy       = "noisy"
	Scanned     = "scanned"
)

// blackletterScale enlarges the historic face, whose x-height is small.
const blackletterScale = 1.2

type builtin struct {
	name   string
	desc   string
	style  fonts.Style
	stages []StageKind
	render map[string]float64
}

var builtinDefs = []builtin{
	{name: Minimal, desc: "clean render, no degradation", stages: []StageKind{StageRender}},
	{
		name:   Blackletter,
		desc:   "historic print face, no degradation",
		style:  fonts.StyleBlackletter,
		stages: []StageKind{StageRender},
		render: map[string]float64{"font_scale": blackletterScale},
	},
	{name: Distorted, desc: "skewed, sheared and warped page", stages: []StageKind{StageRender, StageDistort}},
	{name: Noisy, desc: "salt-and-pepper speckle", stages: []StageKind{StageRender, StageNoise}},
	{name: Scanned, desc: "distorted page with worn, broken strokes", stages: []StageKind{StageRender, StageDistort, StageErode}},
}

// Builtins returns the built-in profiles with parameters from schemas.
// Each stage takes its schema defaults, except where a profile pins a value.
func Builtins(schemas Schemas) ([]*Profile, error) {
	out := make([]*Profile, 0, len(builtinDefs))
	for _, def := range builtinDefs {
		stages := make([]Stage, 0, len(def.stages))
		for _, kind := range def.stages {
			var values map[string]float64
			if kind == StageRender {
				values = def.render
			}
			s, err := schemas.Stage(kind, values)
			if err != nil {
				return nil, err
			}
			stages = append(stages, s)
		}
		p, err := New(def.name, def.style, stages...)
		if err != nil {
			return nil, err
		}
		p.Description = def.desc
		out = append(out, p)
	}
	return out, nil
}
