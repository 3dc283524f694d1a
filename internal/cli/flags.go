package cli

import (
	"github.com/spf13/pflag"

	"github.com/matzehuels/ocrsynth/pkg/fonts"
	"github.com/matzehuels/ocrsynth/pkg/pipeline"
	"github.com/matzehuels/ocrsynth/pkg/render"
)

// renderFlags are the request and condition flags shared by synth and batch.
type renderFlags struct {
	req       render.Request
	condition string
	seed      uint64
	format    string
	margin    float64
}

func (f *renderFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.condition, "condition", "c", pipeline.DefaultCondition, "condition profile (see 'ocrsynth profiles')")
	fs.Uint64Var(&f.seed, "seed", pipeline.DefaultSeed, "random seed")
	fs.StringVar(&f.format, "format", "", "image format: png or tiff (default from output extension, else png)")

	fs.StringVar(&f.req.Font, "font", fonts.DefaultFont, "font style: default (profile's), regular, bold, italic, mono, blackletter")
	fs.StringVarP(&f.req.Language, "lang", "l", fonts.DefaultLanguage, "language tag: eng, deu, fra, ltz")
	fs.Float64Var(&f.req.Size, "size", render.DefaultSize, "font size in points")
	fs.IntVar(&f.req.DPI, "dpi", render.DefaultDPI, "resolution in dots per inch")
	fs.IntVar(&f.req.Width, "width", 0, "canvas width in pixels (0 sizes to the text)")
	fs.IntVar(&f.req.Height, "height", 0, "canvas height in pixels (0 sizes to the text)")
	fs.Float64Var(&f.margin, "margin", render.DefaultMargin, "margin in inches around auto-sized dimensions")
	fs.IntVar(&f.req.Padding, "padding", 0, "padding in pixels inside fixed dimensions")
}

// request returns the render request the flags describe.
func (f *renderFlags) request() render.Request {
	req := f.req
	req.Margin = render.Inches(f.margin)
	return req
}
