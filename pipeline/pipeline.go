// Package pipeline runs the two word list pipelines:
//
//	RunTopWords:    fetch -> slice -> csv + txt -> preview
//	RunTaggedWords: resources -> fetch -> slice -> tag -> csv -> preview
//
// Every failure is returned as a *PipelineError naming the stage.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"goTopWords/exportlib"
	"goTopWords/poslib"
	"goTopWords/ranklib"
)

// Stage identifies the step a pipeline failed in
type Stage string

const (
	StageResources Stage = "resources"
	StageRetrieval Stage = "retrieval"
	StageTagging   Stage = "tagging"
	StageExport    Stage = "export"
)

// PipelineError wraps the cause of a failed run with its stage
type PipelineError struct {
	Stage Stage
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

func fail(stage Stage, err error) error {
	return &PipelineError{Stage: stage, Err: err}
}

// Source returns the ordered tokens of a word list
type Source interface {
	Fetch(ctx context.Context, url string) ([]string, error)
}

// Config is passed explicitly to each run
type Config struct {
	URL         string
	Limit       int
	OutputFile  string
	Tagset      string
	PreviewRows int
}

func fetchRanked(ctx context.Context, cfg Config, src Source, out io.Writer) ([]ranklib.WordRecord, error) {
	fmt.Fprintf(out, "Downloading word list from %s...\n", cfg.URL)
	tokens, err := src.Fetch(ctx, cfg.URL)
	if err != nil {
		return nil, fail(StageRetrieval, err)
	}
	return ranklib.Rank(tokens, cfg.Limit), nil
}

// RunTopWords exports the first cfg.Limit words to cfg.OutputFile (CSV)
// and to its .txt sibling (one word per line).
func RunTopWords(ctx context.Context, cfg Config, src Source, out io.Writer) ([]ranklib.WordRecord, error) {
	records, err := fetchRanked(ctx, cfg, src, out)
	if err != nil {
		return nil, err
	}

	if err := exportlib.WriteCSV(cfg.OutputFile, records, false); err != nil {
		return nil, fail(StageExport, err)
	}
	fmt.Fprintf(out, "Success! Top %d words saved to '%s'\n", len(records), cfg.OutputFile)

	txtFile := exportlib.TextFilename(cfg.OutputFile)
	if err := exportlib.WriteText(txtFile, records); err != nil {
		return nil, fail(StageExport, err)
	}
	fmt.Fprintf(out, "Also saved simple text list to '%s'\n", txtFile)

	fmt.Fprintf(out, "\nPreview of top %d:\n", min(cfg.PreviewRows, len(records)))
	exportlib.Preview(out, records, false, cfg.PreviewRows)
	return records, nil
}

// RunTaggedWords makes the tagger resources available, tags the first
// cfg.Limit words and exports them with their category to cfg.OutputFile.
func RunTaggedWords(ctx context.Context, cfg Config, prov poslib.Provisioner, src Source, tagger poslib.Tagger, out io.Writer) ([]ranklib.WordRecord, error) {
	fmt.Fprintln(out, "Checking for tagger data...")
	if err := prov.EnsureResourcesAvailable(ctx); err != nil {
		return nil, fail(StageResources, err)
	}

	records, err := fetchRanked(ctx, cfg, src, out)
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(out, "Tagging parts of speech...")
	tagged, err := poslib.Annotate(records, tagger, cfg.Tagset)
	if err != nil {
		return nil, fail(StageTagging, err)
	}

	if err := exportlib.WriteCSV(cfg.OutputFile, tagged, true); err != nil {
		return nil, fail(StageExport, err)
	}
	fmt.Fprintf(out, "Success! Saved to '%s'\n", cfg.OutputFile)

	fmt.Fprintln(out, "\nPreview:")
	exportlib.Preview(out, tagged, true, cfg.PreviewRows)
	return tagged, nil
}
