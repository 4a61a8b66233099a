// Package vectorspace builds a TF-IDF vector space over subjects and scores
// queries against it. Everything here is pure and safe for concurrent reads.
package vectorspace

import (
	"fmt"
	"math"
	"sort"

	"github.com/kailas-cloud/thesisrec/internal/domain"
	"github.com/kailas-cloud/thesisrec/internal/domain/subject"
)

// Space is an immutable vocabulary + IDF table with one L2-normalized vector
// per subject, in corpus order.
type Space struct {
	terms   []string
	vocab   map[string]int
	idf     []float64
	ids     []string
	index   map[string]int
	vectors []Vector
}

// Build tokenizes every subject's combined text and weights terms with
// raw tf times smoothed idf: ln((1+N)/(1+df)) + 1.
func Build(subjects []subject.Subject) (*Space, error) {
	if len(subjects) == 0 {
		return nil, domain.ErrEmptyCorpus
	}

	n := len(subjects)
	ids := make([]string, n)
	index := make(map[string]int, n)
	docs := make([][]string, n)
	df := make(map[string]int)
	for i := range subjects {
		id := subjects[i].ID()
		if _, dup := index[id]; dup {
			return nil, fmt.Errorf("duplicate subject ID %q", id)
		}
		ids[i] = id
		index[id] = i

		docs[i] = Tokenize(subjects[i].CombinedText())
		seen := make(map[string]struct{}, len(docs[i]))
		for _, tok := range docs[i] {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	terms := make([]string, 0, len(df))
	for t := range df {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	vocab := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	for i, t := range terms {
		vocab[t] = i
		idf[i] = math.Log(float64(1+n)/float64(1+df[t])) + 1
	}

	s := &Space{terms: terms, vocab: vocab, idf: idf, ids: ids, index: index}
	s.vectors = make([]Vector, n)
	for i, tokens := range docs {
		s.vectors[i], _ = s.weigh(tokens)
	}
	return s, nil
}

// weigh turns tokens into a normalized tf-idf vector, reporting how many
// tokens were found in the vocabulary.
func (s *Space) weigh(tokens []string) (Vector, int) {
	dense := make([]float64, len(s.terms))
	known := 0
	for _, tok := range tokens {
		if i, ok := s.vocab[tok]; ok {
			dense[i]++
			known++
		}
	}
	for i := range dense {
		dense[i] *= s.idf[i]
	}
	return newVector(dense).normalized(), known
}

// Len returns the number of documents.
func (s *Space) Len() int { return len(s.vectors) }

// Dim returns the vocabulary size.
func (s *Space) Dim() int { return len(s.terms) }

// Terms returns the sorted vocabulary.
func (s *Space) Terms() []string {
	out := make([]string, len(s.terms))
	copy(out, s.terms)
	return out
}

// IDF returns the inverse document frequency of a term and whether it is known.
func (s *Space) IDF(term string) (float64, bool) {
	i, ok := s.vocab[term]
	if !ok {
		return 0, false
	}
	return s.idf[i], true
}

// IDs returns subject IDs in corpus order.
func (s *Space) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// IndexOf returns the corpus position of a subject.
func (s *Space) IndexOf(id string) (int, bool) {
	i, ok := s.index[id]
	return i, ok
}

// Vector returns the document vector at corpus position i.
func (s *Space) Vector(i int) Vector { return s.vectors[i] }
