// Package render rasterizes text onto a blank canvas.
//
// # Overview
//
// [Render] is the first stage of every synthesis. It resolves the requested
// point size against the DPI (px = pt * dpi / 72), lays the text out in lines
// and draws it with an anti-aliased OpenType face onto a uniform background.
// It performs no I/O: fonts arrive as parsed handles from [fonts.Provider].
//
// # Layout Policy
//
// Text is word-wrapped greedily against the usable width. A single word that
// is wider than the usable width on its own is truncated rune by rune until
// it fits; this is the only case where text is dropped. Explicit newlines
// always start a new line.
//
// With a fixed canvas (Width/Height set) the text block is centred and the
// usable width is Width - 2*Padding. With an auto-sized dimension the block
// is placed at Margin (inches) and the canvas grows to fit it, wrapping at
// 8.5 inches minus both margins.
//
// # Failures
//
// Render fails with RENDER_FAILED when the face has no glyph for a
// non-space rune, when one line is taller than the canvas, or when the
// wrapped block needs more height than the canvas has.
//
//	c, err := render.Render(render.Request{
//	    Text: "HELLO", Width: 200, Height: 60, DPI: 150,
//	}, face)
package render
