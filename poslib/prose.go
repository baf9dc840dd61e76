package poslib

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jdkato/prose/v2"
)

// UniversalOther is the universal code for tags missing from the table
const UniversalOther = "X"

// ProseTagger tags words with the prose averaged perceptron model. Penn
// Treebank tags are converted to the universal tagset through the
// universal_tagset resource of store.
type ProseTagger struct {
	store     *ResourceStore
	model     *prose.Model
	universal map[string]string
}

var _ Tagger = (*ProseTagger)(nil)

// NewProseTagger returns a tagger reading its tagset tables from store. A
// nil store only supports the Penn Treebank tagset.
func NewProseTagger(store *ResourceStore) *ProseTagger {
	return &ProseTagger{store: store}
}

// Tag returns one tag per word. The words are tagged as a single sequence so
// each word sees its neighbours, like a sentence.
func (t *ProseTagger) Tag(words []string, tagset string) ([]string, error) {
	var convert func(string) string
	switch tagset {
	case "", TagsetPTB:
		convert = func(tag string) string { return tag }
	case TagsetUniversal:
		m, err := t.universalMap()
		if err != nil {
			return nil, err
		}
		convert = func(tag string) string {
			if u, ok := m[tag]; ok {
				return u
			}
			return UniversalOther
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedTagset, tagset)
	}

	if len(words) == 0 {
		return []string{}, nil
	}
	tags, err := t.tagPTB(words)
	if err != nil {
		return nil, err
	}
	for i, tag := range tags {
		tags[i] = convert(tag)
	}
	return tags, nil
}

func (t *ProseTagger) tagPTB(words []string) ([]string, error) {
	doc, err := t.document(strings.Join(words, " "))
	if err != nil {
		return nil, err
	}
	if tags, ok := align(words, doc.Tokens()); ok {
		return tags, nil
	}

	// the tokenizer did not split the text along the words: tag each word
	// on its own so positions cannot shift
	tags := make([]string, len(words))
	for i, w := range words {
		if strings.TrimSpace(w) == "" {
			continue
		}
		d, err := t.document(w)
		if err != nil {
			return nil, err
		}
		if tokens := d.Tokens(); len(tokens) > 0 {
			tags[i] = tokens[0].Tag
		}
	}
	return tags, nil
}

// document tags text, loading the model once and reusing it afterwards
func (t *ProseTagger) document(text string) (*prose.Document, error) {
	opts := []prose.DocOpt{prose.WithSegmentation(false), prose.WithExtraction(false)}
	if t.model != nil {
		opts = append(opts, prose.UsingModel(t.model))
	}
	doc, err := prose.NewDocument(text, opts...)
	if err != nil {
		return nil, err
	}
	t.model = doc.Model
	return doc, nil
}

// align gives each word the tag of its first token. It fails when the
// tokens do not concatenate back to the words.
func align(words []string, tokens []prose.Token) ([]string, bool) {
	tags := make([]string, len(words))
	next := 0
	for i, w := range words {
		target := strings.Join(strings.Fields(w), "")
		var acc strings.Builder
		for next < len(tokens) && acc.Len() < len(target) {
			if acc.Len() == 0 {
				tags[i] = tokens[next].Tag
			}
			acc.WriteString(tokens[next].Text)
			next++
		}
		if acc.String() != target {
			return nil, false
		}
	}
	return tags, next == len(tokens)
}

func (t *ProseTagger) universalMap() (map[string]string, error) {
	if t.universal != nil {
		return t.universal, nil
	}
	if t.store == nil {
		return nil, fmt.Errorf("%w: %s needs the universal_tagset resource", ErrUnsupportedTagset, TagsetUniversal)
	}
	p, err := t.store.Path("universal_tagset", "en-ptb.map")
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResourceNotFound, err)
	}
	defer f.Close()

	m, err := ParseTagMap(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", p, err)
	}
	t.universal = m
	return m, nil
}

// ParseTagMap reads a tagset mapping table: one "SOURCE<TAB>TARGET" pair
// per line, blank lines ignored.
func ParseTagMap(r io.Reader) (map[string]string, error) {
	m := make(map[string]string)
	scanner := bufio.NewScanner(r)
	numLine := 0
	for scanner.Scan() {
		numLine++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: expected 2 fields, got %d", numLine, len(fields))
		}
		m[fields[0]] = fields[1]
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return m, nil
}
