package poslib

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/jdkato/prose/v2"
)

func TestParseTagMap(t *testing.T) {
	m, err := ParseTagMap(strings.NewReader("NN\tNOUN\n\n``\t.\nPRP$\tPRON\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := map[string]string{"NN": "NOUN", "``": ".", "PRP$": "PRON"}
	if !reflect.DeepEqual(m, want) {
		t.Fatalf("ParseTagMap = %v", m)
	}

	if _, err := ParseTagMap(strings.NewReader("NN NOUN extra\n")); err == nil {
		t.Fatalf("expect error on malformed line")
	}
}

func TestAlign(t *testing.T) {
	tokens := []prose.Token{
		{Text: "the", Tag: "DT"},
		{Text: "do", Tag: "VBP"},
		{Text: "n't", Tag: "RB"},
		{Text: "apple", Tag: "NN"},
	}
	tags, ok := align([]string{"the", "", "don't", "apple"}, tokens)
	if !ok {
		t.Fatalf("expect alignment")
	}
	if !reflect.DeepEqual(tags, []string{"DT", "", "VBP", "NN"}) {
		t.Fatalf("align = %q", tags)
	}

	if _, ok := align([]string{"the", "apples"}, tokens[:1]); ok {
		t.Fatalf("expect alignment failure on missing tokens")
	}
	if _, ok := align([]string{"the"}, tokens); ok {
		t.Fatalf("expect alignment failure on extra tokens")
	}
}

func TestProseTaggerPreservesLength(t *testing.T) {
	words := []string{"the", "apple", "don't", "", "e-mail", "u.s.", "run", "quick"}
	tags, err := NewProseTagger(nil).Tag(words, TagsetPTB)
	if err != nil {
		t.Fatalf("tag: %v", err)
	}
	if len(tags) != len(words) {
		t.Fatalf("expect %d tags, got %d: %q", len(words), len(tags), tags)
	}
	if tags[0] != "DT" {
		t.Fatalf("expect DT for %q, got %q", words[0], tags[0])
	}
}

func TestProseTaggerRetagsUnalignedWords(t *testing.T) {
	words := []string{"he", "said", "“hi”"}
	tagger := NewProseTagger(nil)

	doc, err := tagger.document(strings.Join(words, " "))
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	if _, ok := align(words, doc.Tokens()); ok {
		t.Fatalf("expect curly quotes to break the alignment")
	}

	tags, err := tagger.Tag(words, TagsetPTB)
	if err != nil {
		t.Fatalf("tag: %v", err)
	}
	if len(tags) != len(words) {
		t.Fatalf("expect %d tags, got %q", len(words), tags)
	}
	if tags[0] != "PRP" || tags[1] != "VBD" {
		t.Fatalf("expect PRP VBD for %q, got %q", words[:2], tags)
	}
	if tags[2] == "" {
		t.Fatalf("expect a tag for %q", words[2])
	}
}

func TestProseTaggerUniversal(t *testing.T) {
	s, _ := newTestStore(t)
	if err := s.EnsureResourcesAvailable(context.Background()); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	tagger := NewProseTagger(s)
	words := []string{"the", "apple", "run", "quick", ""}

	tags, err := tagger.Tag(words, TagsetUniversal)
	if err != nil {
		t.Fatalf("tag: %v", err)
	}
	if len(tags) != len(words) {
		t.Fatalf("expect %d tags, got %q", len(words), tags)
	}
	if tags[0] != "DET" {
		t.Fatalf("expect DET for %q, got %q", words[0], tags[0])
	}
	if tags[4] != UniversalOther {
		t.Fatalf("expect %s for the empty word, got %q", UniversalOther, tags[4])
	}

	again, err := tagger.Tag(words, TagsetUniversal)
	if err != nil {
		t.Fatalf("tag again: %v", err)
	}
	if !reflect.DeepEqual(tags, again) {
		t.Fatalf("tagging is not deterministic: %q vs %q", tags, again)
	}
}

func TestProseTaggerUniversalWithoutResource(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := NewProseTagger(s).Tag([]string{"the"}, TagsetUniversal)
	if !errors.Is(err, ErrResourceNotFound) {
		t.Fatalf("expect resource not found, got %v", err)
	}
}

func TestProseTaggerUnsupportedTagset(t *testing.T) {
	if _, err := NewProseTagger(nil).Tag([]string{"the"}, "brown"); !errors.Is(err, ErrUnsupportedTagset) {
		t.Fatalf("expect unsupported tagset, got %v", err)
	}
	if _, err := NewProseTagger(nil).Tag([]string{"the"}, TagsetUniversal); !errors.Is(err, ErrUnsupportedTagset) {
		t.Fatalf("expect unsupported tagset without a store, got %v", err)
	}
}

func TestProseTaggerEmptyInput(t *testing.T) {
	tags, err := NewProseTagger(nil).Tag(nil, TagsetPTB)
	if err != nil || len(tags) != 0 {
		t.Fatalf("unexpected %q %v", tags, err)
	}
}
