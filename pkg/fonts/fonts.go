// Package fonts resolves font handles for the glyph renderer.
//
// Fonts are looked up by (language tag, style). The built-in library is
// backed by the Go font family, which is compiled into the binary via
// golang.org/x/image/font/gofont and covers Latin, Greek and Cyrillic
// scripts. Additional TrueType/OpenType data can be registered per language
// and style, for example a real Fraktur face for the blackletter style.
package fonts

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
	"golang.org/x/image/font/opentype"

	"github.com/matzehuels/ocrsynth/pkg/errors"
)

// Style selects a typeface family within a language.
type Style string

// Supported styles.
const (
	StyleRegular Style = "regular"
	StyleBold    Style = "bold"
	StyleItalic  Style = "italic"
	StyleMono    Style = "mono"
	// StyleBlackletter is the historic-print selection. The built-in face is
	// Go Smallcaps; register a Fraktur font to get true blackletter glyphs.
	StyleBlackletter Style = "blackletter"
)

// DefaultFont is the font identifier meaning "use the profile's style".
const DefaultFont = "default"

// Styles lists the built-in styles in display order.
var Styles = []Style{StyleRegular, StyleBold, StyleItalic, StyleMono, StyleBlackletter}

// ParseStyle validates a style name.
func ParseStyle(s string) (Style, error) {
	if slices.Contains(Styles, Style(s)) {
		return Style(s), nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown font style %q (must be one of: regular, bold, italic, mono, blackletter)", s)
}

// Provider looks up font handles. Implementations must be safe for
// concurrent reads once initialisation is complete.
type Provider interface {
	Font(lang string, style Style) (*opentype.Font, error)
}

// Fingerprinter is implemented by providers whose faces can change between
// runs. The fingerprint changes whenever any face the provider can return
// changes, so it can be folded into cache keys.
type Fingerprinter interface {
	Fingerprint() string
}

// builtin TTF data per style. Every language shares these faces.
var builtinTTF = map[Style][]byte{
	StyleRegular:     goregular.TTF,
	StyleBold:        gobold.TTF,
	StyleItalic:      goitalic.TTF,
	StyleMono:        gomono.TTF,
	StyleBlackletter: gosmallcaps.TTF,
}

// Parsed built-ins are shared by every Library (computed once on first access).
var (
	builtinFonts     map[Style]*opentype.Font
	builtinFontsErr  error
	builtinFontsOnce sync.Once
)

func builtins() (map[Style]*opentype.Font, error) {
	builtinFontsOnce.Do(func() {
		builtinFonts = make(map[Style]*opentype.Font, len(builtinTTF))
		for style, data := range builtinTTF {
			f, err := opentype.Parse(data)
			if err != nil {
				builtinFontsErr = fmt.Errorf("parse built-in %s font: %w", style, err)
				return
			}
			builtinFonts[style] = f
		}
	})
	return builtinFonts, builtinFontsErr
}

type key struct {
	lang  string
	style Style
}

// Library is the default Provider. Registered fonts take precedence over
// the built-ins; a font registered for language "*" applies to every
// language without a more specific entry.
//
// Register must only be called during initialisation, before the library is
// shared with concurrent readers.
type Library struct {
	custom  map[key]*opentype.Font
	digests map[key]uint64 // xxhash of the registered TTF data
}

// NewLibrary creates a library holding only the built-in faces.
func NewLibrary() *Library {
	return &Library{
		custom:  make(map[key]*opentype.Font),
		digests: make(map[key]uint64),
	}
}

// Register parses ttf and makes it the face for (lang, style).
// Use "*" as lang to register for all languages.
func (l *Library) Register(lang string, style Style, ttf []byte) error {
	if _, err := ParseStyle(string(style)); err != nil {
		return err
	}
	if lang != "*" {
		if _, err := LookupLanguage(lang); err != nil {
			return err
		}
	}
	f, err := opentype.Parse(ttf)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse font for %s/%s", lang, style)
	}
	k := key{lang, style}
	l.custom[k] = f
	l.digests[k] = xxhash.Sum64(ttf)
	return nil
}

// Fingerprint identifies the registered faces. A library with only the
// built-ins returns "builtin"; the built-ins are fixed by the binary.
func (l *Library) Fingerprint() string {
	if len(l.digests) == 0 {
		return "builtin"
	}
	parts := make([]string, 0, len(l.digests))
	for k, d := range l.digests {
		parts = append(parts, fmt.Sprintf("%s/%s:%016x", k.lang, k.style, d))
	}
	slices.Sort(parts)
	return strings.Join(parts, ",")
}

// Font returns the face for (lang, style). Lookup order: exact registration,
// wildcard registration, built-in. Unknown languages and styles fail with
// RENDER_FAILED because the renderer cannot proceed without a face.
func (l *Library) Font(lang string, style Style) (*opentype.Font, error) {
	if _, err := LookupLanguage(lang); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "no font coverage for language %q", lang)
	}
	if f, ok := l.custom[key{lang, style}]; ok {
		return f, nil
	}
	if f, ok := l.custom[key{"*", style}]; ok {
		return f, nil
	}
	all, err := builtins()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load built-in fonts")
	}
	f, ok := all[style]
	if !ok {
		return nil, errors.New(errors.ErrCodeRenderFailed, "no font for style %q", style)
	}
	return f, nil
}

var (
	_ Provider      = (*Library)(nil)
	_ Fingerprinter = (*Library)(nil)
)
