// Package cli implements the thesisrec command-line tool: offline queries
// against a CSV corpus, without the HTTP server.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/thesisrec/internal/domain/program"
	"github.com/kailas-cloud/thesisrec/internal/ingest"
	cataloguc "github.com/kailas-cloud/thesisrec/internal/usecase/catalog"
)

// corpusFlags are shared by every command reading a CSV corpus.
type corpusFlags struct {
	path      string
	separator string
	noHeader  bool
}

func (f *corpusFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.path, "csv", "", "Path to the subjects CSV (required)")
	cmd.Flags().StringVar(&f.separator, "sep", string(ingest.DefaultSeparator), "CSV column separator")
	cmd.Flags().BoolVar(&f.noHeader, "no-header", false, "The CSV has no header row")
	_ = cmd.MarkFlagRequired("csv")
}

// load reads the corpus and publishes it in a fresh in-memory catalog.
func (f *corpusFlags) load(ctx context.Context) (*cataloguc.Service, ingest.Batch, error) {
	if utf8.RuneCountInString(f.separator) != 1 {
		return nil, ingest.Batch{}, fmt.Errorf("--sep must be a single character, got %q", f.separator)
	}
	sep, _ := utf8.DecodeRuneInString(f.separator)

	src := ingest.NewFileSource(f.path, ingest.Options{Separator: sep, NoHeader: f.noHeader})
	catalog := cataloguc.New(src, nil, zap.NewNop())
	_, batch, err := catalog.Reload(ctx)
	if err != nil {
		return nil, batch, err
	}
	return catalog, batch, nil
}

func parseProgram(s string) (program.Program, error) {
	p, ok := program.Parse(s)
	if !ok {
		return program.Any, fmt.Errorf("unknown program %q (want GI, GE, GC or all)", s)
	}
	return p, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
