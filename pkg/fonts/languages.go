package fonts

import (
	"maps"
	"slices"

	"github.com/matzehuels/ocrsynth/pkg/errors"
)

// DefaultLanguage is used when a request leaves the language empty.
const DefaultLanguage = "eng"

// Language describes a supported language pack.
type Language struct {
	Tag     string // ISO 639-2 code used in requests (e.g. "deu")
	Name    string // English display name
	OCRCode string // language code handed to downstream OCR tooling
	Sample  string // pangram used by previews and tests
}

// Languages lists the supported language packs keyed by tag.
var Languages = map[string]Language{
	"eng": {Tag: "eng", Name: "English", OCRCode: "eng", Sample: "The quick brown fox jumps over the lazy dog."},
	"deu": {Tag: "deu", Name: "German", OCRCode: "deu", Sample: "Zwölf Boxkämpfer jagen Viktor quer über den großen Sylter Deich."},
	"fra": {Tag: "fra", Name: "French", OCRCode: "fra", Sample: "Portez ce vieux whisky au juge blond qui fume."},
	"ltz": {Tag: "ltz", Name: "Luxembourgish", OCRCode: "ltz", Sample: "Dëst ass e Beispilltext op Lëtzebuergesch."},
}

// LookupLanguage returns the language pack for tag. An empty tag resolves
// to DefaultLanguage.
func LookupLanguage(tag string) (Language, error) {
	if tag == "" {
		tag = DefaultLanguage
	}
	l, ok := Languages[tag]
	if !ok {
		return Language{}, errors.New(errors.ErrCodeInvalidInput, "unsupported language %q (supported: %v)", tag, LanguageTags())
	}
	return l, nil
}

// LanguageTags returns the supported tags in sorted order.
func LanguageTags() []string {
	return slices.Sorted(maps.Keys(Languages))
}
