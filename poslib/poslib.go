// Package poslib annotates ranked words with part-of-speech categories.
//
// Tagging itself is delegated to a Tagger; the package owns the mapping of
// universal category codes to display names and the provisioning of the
// local resources a tagger needs before its first use.
package poslib

import (
	"context"
	"errors"
	"fmt"

	"goTopWords/ranklib"
)

// Tagset identifiers understood by ProseTagger
const (
	TagsetUniversal = "universal"
	TagsetPTB       = "en-ptb"
)

var (
	// ErrLengthMismatch: the tagger did not return exactly one code per word.
	ErrLengthMismatch = errors.New("tag count does not match word count")
	// ErrUnsupportedTagset: the requested tagset is not available.
	ErrUnsupportedTagset = errors.New("unsupported tagset")
)

// Tagger assigns one category code per word, preserving order and length.
type Tagger interface {
	Tag(words []string, tagset string) ([]string, error)
}

// Provisioner makes the tagger resources available locally. Calling it
// again once the resources are present must not download anything.
type Provisioner interface {
	EnsureResourcesAvailable(ctx context.Context) error
}

// CategoryMap maps universal tagset codes to display names
var CategoryMap = map[string]string{
	"NOUN": "Noun",
	"VERB": "Verb",
	"ADJ":  "Adjective",
	"ADV":  "Adverb",
	"PRON": "Pronoun",
	"DET":  "Determiner",
	"ADP":  "Preposition",
	"NUM":  "Number",
	"CONJ": "Conjunction",
	"PRT":  "Particle",
	".":    "Punctuation",
	"X":    "Other",
}

// MapCategory returns the display name of code, or code itself when it has
// no entry in CategoryMap.
func MapCategory(code string) string {
	if name, ok := CategoryMap[code]; ok {
		return name
	}
	return code
}

// Annotate tags the words of records in one call and returns copies of the
// records carrying the mapped category of the tag at the same position.
func Annotate(records []ranklib.WordRecord, tagger Tagger, tagset string) ([]ranklib.WordRecord, error) {
	words := ranklib.Words(records)
	codes, err := tagger.Tag(words, tagset)
	if err != nil {
		return nil, err
	}
	if len(codes) != len(words) {
		return nil, fmt.Errorf("%w: %d words, %d tags", ErrLengthMismatch, len(words), len(codes))
	}

	out := make([]ranklib.WordRecord, len(records))
	for i, r := range records {
		r.POS = MapCategory(codes[i])
		out[i] = r
	}
	return out, nil
}
