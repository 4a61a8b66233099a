// Package query models a user query: free text, optionally biased by term weights.
package query

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/kailas-cloud/thesisrec/internal/domain"
)

// Weight bounds.
const (
	MinWeight = 1
	MaxWeight = 5
	// MaxLength is the maximum raw query length in bytes.
	MaxLength = 4096
)

// Mode selects how the query is turned into a pseudo-document.
type Mode string

// Query modes.
const (
	Plain    Mode = "plain"
	Weighted Mode = "weighted"
)

// Term is a weighted query term.
type Term struct {
	Text   string
	Weight int
}

// Query is a validated recommendation query (immutable value object).
type Query struct {
	text  string
	terms []Term
}

// NewPlain creates a plain-text query. Blank text yields an empty query, not an error.
func NewPlain(text string) (Query, error) {
	if len(text) > MaxLength {
		return Query{}, fmt.Errorf("%w: query too long (max %d bytes)", domain.ErrInvalidQuery, MaxLength)
	}
	return Query{text: strings.TrimSpace(text)}, nil
}

// NewWeighted creates a weighted query. Terms are lowercased and trimmed;
// a repeated term keeps its first position and its last weight.
// When text is blank the display text is derived from the terms.
func NewWeighted(text string, terms []Term) (Query, error) {
	if len(text) > MaxLength {
		return Query{}, fmt.Errorf("%w: query too long (max %d bytes)", domain.ErrInvalidQuery, MaxLength)
	}
	merged := make([]Term, 0, len(terms))
	pos := make(map[string]int, len(terms))
	for _, t := range terms {
		name := strings.ToLower(strings.TrimSpace(t.Text))
		if name == "" {
			return Query{}, fmt.Errorf("%w: empty weighted term", domain.ErrInvalidQuery)
		}
		if t.Weight < MinWeight || t.Weight > MaxWeight {
			return Query{}, fmt.Errorf("%w: weight for %q must be between %d and %d",
				domain.ErrInvalidQuery, name, MinWeight, MaxWeight)
		}
		if i, ok := pos[name]; ok {
			merged[i].Weight = t.Weight
			continue
		}
		pos[name] = len(merged)
		merged = append(merged, Term{Text: name, Weight: t.Weight})
	}

	text = strings.TrimSpace(text)
	if text == "" {
		names := make([]string, len(merged))
		for i, t := range merged {
			names[i] = t.Text
		}
		text = strings.Join(names, ", ")
	}
	return Query{text: text, terms: merged}, nil
}

// Text returns the raw query text.
func (q *Query) Text() string { return q.text }

// Terms returns a copy of the weighted terms (nil in plain mode).
func (q *Query) Terms() []Term {
	if q.terms == nil {
		return nil
	}
	out := make([]Term, len(q.terms))
	copy(out, q.terms)
	return out
}

// Mode returns Weighted when the query carries term weights.
func (q *Query) Mode() Mode {
	if len(q.terms) > 0 {
		return Weighted
	}
	return Plain
}

// IsEmpty reports whether there is nothing to vectorize.
func (q *Query) IsEmpty() bool {
	if len(q.terms) > 0 {
		return false
	}
	return q.text == ""
}

// Document returns the pseudo-document fed to the vectorizer.
// Weighted mode repeats every term by its weight.
func (q *Query) Document() string {
	if len(q.terms) == 0 {
		return strings.ToLower(q.text)
	}
	var b strings.Builder
	for _, t := range q.terms {
		for range t.Weight {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(t.Text)
		}
	}
	return b.String()
}

// MatchTerms returns the term set used to highlight tags:
// comma-split pieces united with whitespace-split pieces of the lowercased text.
func (q *Query) MatchTerms() map[string]struct{} {
	lower := strings.ToLower(q.text)
	set := make(map[string]struct{})
	for _, piece := range strings.Split(lower, ",") {
		if p := strings.TrimSpace(piece); p != "" {
			set[p] = struct{}{}
		}
	}
	for _, piece := range strings.Fields(lower) {
		set[piece] = struct{}{}
	}
	return set
}

// ParseWeights parses "term=weight" pairs separated by commas, e.g. "ia=5,image=2".
// A bare term gets MinWeight.
func ParseWeights(s string) ([]Term, error) {
	var terms []Term
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, raw, found := strings.Cut(pair, "=")
		w := MinWeight
		if found {
			n, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				return nil, fmt.Errorf("%w: weight for %q is not an integer", domain.ErrInvalidQuery, name)
			}
			w = n
		}
		terms = append(terms, Term{Text: strings.TrimSpace(name), Weight: w})
	}
	return terms, nil
}

// TermsFromMap converts a term->weight map into terms ordered by name.
func TermsFromMap(m map[string]int) []Term {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	terms := make([]Term, len(names))
	for i, n := range names {
		terms[i] = Term{Text: n, Weight: m[n]}
	}
	return terms
}
