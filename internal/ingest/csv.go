// Package ingest normalizes raw tabular records into subjects.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/kailas-cloud/thesisrec/internal/domain"
	"github.com/kailas-cloud/thesisrec/internal/domain/program"
	"github.com/kailas-cloud/thesisrec/internal/domain/subject"
)

// DefaultSeparator is the source column separator.
const DefaultSeparator = ';'

// carriageReturnMarker is a spreadsheet export artifact for \r.
const carriageReturnMarker = "_x000D_"

// Options configures CSV reading.
type Options struct {
	Separator rune
	// NoHeader disables skipping the first row.
	NoHeader bool
}

// Batch is the outcome of one ingestion.
type Batch struct {
	Subjects []subject.Subject
	// Dropped counts records with an unknown program.
	Dropped int
	// Skipped counts malformed rows (missing columns or ID).
	Skipped int
	// Duplicates counts records whose ID was already seen; the first one wins.
	Duplicates int
}

// ReadCSV reads records of id, title, program text and tag string (the first
// four columns). Row-level problems are counted, not fatal; a batch with no
// valid subject fails with domain.ErrEmptyCorpus.
func ReadCSV(r io.Reader, opts Options) (Batch, error) {
	cr := csv.NewReader(r)
	cr.Comma = opts.Separator
	if cr.Comma == 0 {
		cr.Comma = DefaultSeparator
	}
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	var b Batch
	seen := make(map[string]struct{})
	header := !opts.NoHeader
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				b.Skipped++
				continue
			}
			return Batch{}, fmt.Errorf("read csv: %w", err)
		}
		if header {
			header = false
			continue
		}

		s, outcome := normalize(rec)
		switch outcome {
		case rowSkipped:
			b.Skipped++
			continue
		case rowDropped:
			b.Dropped++
			continue
		}
		if _, dup := seen[s.ID()]; dup {
			b.Duplicates++
			continue
		}
		seen[s.ID()] = struct{}{}
		b.Subjects = append(b.Subjects, s)
	}

	if len(b.Subjects) == 0 {
		return b, domain.ErrEmptyCorpus
	}
	return b, nil
}

type rowOutcome int

const (
	rowOK rowOutcome = iota
	rowSkipped
	rowDropped
)

func normalize(rec []string) (subject.Subject, rowOutcome) {
	if len(rec) < 4 {
		return subject.Subject{}, rowSkipped
	}
	id := strings.TrimSpace(rec[0])
	if id == "" {
		return subject.Subject{}, rowSkipped
	}
	p, ok := MapProgram(rec[2])
	if !ok {
		return subject.Subject{}, rowDropped
	}
	title := strings.ReplaceAll(rec[1], carriageReturnMarker, " ")
	s, err := subject.New(id, title, p, subject.SplitTags(CleanTags(rec[3])))
	if err != nil {
		return subject.Subject{}, rowSkipped
	}
	return s, rowOK
}

// CleanTags removes export artifacts and quotes from a raw tag string and lowercases it.
func CleanTags(raw string) string {
	raw = strings.ReplaceAll(raw, carriageReturnMarker, " ")
	raw = strings.ReplaceAll(raw, `"`, "")
	return strings.ToLower(strings.TrimSpace(raw))
}

// TechnicalTags returns the distinct non-program tags, sorted.
func TechnicalTags(subjects []subject.Subject) []string {
	skip := make(map[string]struct{})
	for _, t := range program.Tags() {
		skip[t] = struct{}{}
	}
	set := make(map[string]struct{})
	for i := range subjects {
		for _, t := range subjects[i].Tags() {
			if _, ok := skip[t]; ok {
				continue
			}
			set[t] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
