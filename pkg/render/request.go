package render

import (
	"github.com/matzehuels/ocrsynth/pkg/canvas"
	"github.com/matzehuels/ocrsynth/pkg/errors"
	"github.com/matzehuels/ocrsynth/pkg/fonts"
	"github.com/matzehuels/ocrsynth/pkg/params"
)

// Default request values. Zero fields in a Request take these.
const (
	DefaultSize   = 10.0 // points
	DefaultDPI    = 300
	DefaultMargin = 0.5 // inches, auto-sized dimensions only
	DefaultScale  = 1.0

	// PageWidth is the wrap width in inches for auto-sized canvases (US Letter).
	PageWidth = 8.5

	maxDPI  = 2400
	maxSize = 1000.0
	maxDim  = 20000
)

// Request describes one text rendering. It is a value type; the engine
// copies it and never mutates the caller's instance, including the value
// Margin points to.
type Request struct {
	Text     string  `json:"text"`
	Font     string  `json:"font,omitempty"`     // style name, or "default" for the profile's style
	Language string  `json:"language,omitempty"` // language tag, default "eng"
	Size     float64 `json:"size,omitempty"`     // points
	Width    int     `json:"width,omitempty"`    // pixels; 0 auto-sizes
	Height   int     `json:"height,omitempty"`   // pixels; 0 auto-sizes
	DPI      int     `json:"dpi,omitempty"`

	// Background and Ink are paper and text intensities. When both are zero
	// the request is treated as unset and gets white paper with black ink.
	Background uint8 `json:"background,omitempty"`
	Ink        uint8 `json:"ink,omitempty"`

	Margin  *float64 `json:"margin,omitempty"` // inches around auto-sized dimensions; nil for the default
	Padding int      `json:"padding,omitempty"` // pixels inside fixed dimensions
	Scale   float64  `json:"scale,omitempty"`   // font size multiplier
}

// Inches returns a pointer to v, for setting Margin.
func Inches(v float64) *float64 {
	return &v
}

// margin returns the margin in inches, or the default when unset.
func (r Request) margin() float64 {
	if r.Margin == nil {
		return DefaultMargin
	}
	return *r.Margin
}

// WithDefaults returns a copy with zero fields replaced by defaults.
// A nil Margin takes DefaultMargin; an explicit zero is kept.
func (r Request) WithDefaults() Request {
	if r.Font == "" {
		r.Font = fonts.DefaultFont
	}
	if r.Language == "" {
		r.Language = fonts.DefaultLanguage
	}
	if r.Size == 0 {
		r.Size = DefaultSize
	}
	if r.DPI == 0 {
		r.DPI = DefaultDPI
	}
	if r.Background == 0 && r.Ink == 0 {
		r.Background, r.Ink = canvas.White, canvas.Black
	}
	if r.Margin == nil {
		r.Margin = Inches(DefaultMargin)
	}
	if r.Scale == 0 {
		r.Scale = DefaultScale
	}
	return r
}

// Validate checks field ranges. Call it on a request with defaults applied.
func (r Request) Validate() error {
	switch {
	case r.Width < 0 || r.Height < 0:
		return errors.New(errors.ErrCodeInvalidInput, "canvas dimensions must not be negative, got %dx%d", r.Width, r.Height)
	case r.Width > maxDim || r.Height > maxDim:
		return errors.New(errors.ErrCodeInvalidInput, "canvas dimensions exceed %d px, got %dx%d", maxDim, r.Width, r.Height)
	case r.DPI <= 0 || r.DPI > maxDPI:
		return errors.New(errors.ErrCodeInvalidInput, "dpi must be in [1, %d], got %d", maxDPI, r.DPI)
	case !(r.Size > 0) || r.Size > maxSize:
		return errors.New(errors.ErrCodeInvalidInput, "font size must be in (0, %g] points, got %g", maxSize, r.Size)
	case !(r.Scale > 0):
		return errors.New(errors.ErrCodeInvalidInput, "font scale must be positive, got %g", r.Scale)
	case (r.Margin != nil && *r.Margin < 0) || r.Padding < 0:
		return errors.New(errors.ErrCodeInvalidInput, "margin and padding must not be negative")
	case r.Background == r.Ink:
		return errors.New(errors.ErrCodeInvalidInput, "ink and background intensity are both %d", r.Ink)
	}
	return nil
}

// FontPixels returns the effective font size in pixels.
func (r Request) FontPixels() float64 {
	return r.Size * r.Scale * float64(r.DPI) / 72
}

// Schema declares the parameters of the render stage.
var Schema = params.Schema{
	Stage: "render",
	Specs: []params.Spec{
		{Name: "font_scale", Min: 0.25, Max: 4, Default: 1, Doc: "font size multiplier applied on top of the request"},
	},
}
