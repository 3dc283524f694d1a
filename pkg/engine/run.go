package engine

import (
	"fmt"

	"github.com/matzehuels/ocrsynth/pkg/canvas"
	"github.com/matzehuels/ocrsynth/pkg/errors"
	"github.com/matzehuels/ocrsynth/pkg/fonts"
	"github.com/matzehuels/ocrsynth/pkg/profile"
	"github.com/matzehuels/ocrsynth/pkg/render"
)

// State is the progress of one synthesis.
type State int

const (
	StateInit State = iota
	StateRendered
	StateStage
	StateComplete
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateRendered:
		return "rendered"
	case StateStage:
		return "stage"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// run carries one synthesis from Init to Complete or Failed.
type run struct {
	engine  *Engine
	profile *profile.Profile
	seed    uint64

	state   State
	stage   int // index into profile.Stages while in StateStage
	request render.Request
	style   fonts.Style
	applied []AppliedStage
}

func (r *run) execute(req render.Request) (*canvas.Canvas, error) {
	c, err := r.render(req)
	if err != nil {
		return nil, r.fail(err)
	}
	r.state = StateRendered

	rng := r.engine.rand(r.seed)
	for i, s := range r.profile.Stages[1:] {
		r.state, r.stage = StateStage, i+1
		next, drawn, err := apply(c, s, rng)
		if err != nil {
			return nil, r.fail(err)
		}
		c = next
		r.applied = append(r.applied, AppliedStage{Kind: s.Kind, Params: s.Params, Drawn: drawn})
	}
	r.state = StateComplete
	return c, nil
}

func (r *run) render(req render.Request) (*canvas.Canvas, error) {
	stage := r.profile.Render()
	req = req.WithDefaults()

	style := r.profile.FontStyle
	if req.Font != fonts.DefaultFont {
		s, err := fonts.ParseStyle(req.Font)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "no font %q", req.Font)
		}
		style = s
	}
	req.Scale *= stage.Params.Get("font_scale")
	if err := req.Validate(); err != nil {
		return nil, err
	}

	f, err := r.engine.fonts.Font(req.Language, style)
	if err != nil {
		return nil, err
	}
	c, err := render.Render(req, f)
	if err != nil {
		return nil, err
	}

	r.request, r.style = req, style
	r.applied = append(r.applied, AppliedStage{
		Kind:   profile.StageRender,
		Params: stage.Params,
		Drawn:  map[string]float64{"font_px": req.FontPixels()},
	})
	return c, nil
}

// fail moves the run to Failed and prefixes err with the stage reached.
// The error keeps its code and cause.
func (r *run) fail(err error) error {
	at := r.state
	r.state = StateFailed
	r.applied = nil

	where := "render"
	if at == StateStage {
		where = fmt.Sprintf("stage %d (%s)", r.stage, r.profile.Stages[r.stage].Kind)
	}
	prefix := fmt.Sprintf("condition %q: %s", r.profile.Name, where)
	if e, ok := err.(*errors.Error); ok {
		return &errors.Error{Code: e.Code, Message: prefix + ": " + e.Message, Cause: e.Cause}
	}
	return errors.Wrap(errors.ErrCodeInternal, err, "%s", prefix)
}
