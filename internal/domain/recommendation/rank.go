// Package recommendation ranks scored subjects into a recommendation result.
package recommendation

import (
	"fmt"
	"sort"

	"github.com/kailas-cloud/thesisrec/internal/domain"
	"github.com/kailas-cloud/thesisrec/internal/domain/subject"
)

// DefaultTopN is the result size when none is requested.
const DefaultTopN = 15

// MaxTopN caps the result size.
const MaxTopN = 500

// Candidates is the set of subject IDs eligible for ranking. Nil means every subject.
type Candidates map[string]struct{}

// NewCandidates builds a candidate set from IDs.
func NewCandidates(ids ...string) Candidates {
	c := make(Candidates, len(ids))
	for _, id := range ids {
		c[id] = struct{}{}
	}
	return c
}

// Contains reports whether id is eligible. A nil set admits every ID.
func (c Candidates) Contains(id string) bool {
	if c == nil {
		return true
	}
	_, ok := c[id]
	return ok
}

// Rank keeps candidates with a positive score, orders them by descending
// score (ties in corpus order) and truncates to topN. Scores must come from
// the full corpus in subject order; the filter applies afterwards.
func Rank(
	scores []float64,
	subjects []subject.Subject,
	candidates Candidates,
	topN int,
	terms map[string]struct{},
) ([]Item, error) {
	if len(scores) != len(subjects) {
		return nil, fmt.Errorf("%w: %d scores for %d subjects",
			domain.ErrDimensionMismatch, len(scores), len(subjects))
	}
	if candidates != nil {
		known := make(map[string]struct{}, len(subjects))
		for i := range subjects {
			known[subjects[i].ID()] = struct{}{}
		}
		for id := range candidates {
			if _, ok := known[id]; !ok {
				return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSubject, id)
			}
		}
	}
	if topN <= 0 {
		topN = DefaultTopN
	}

	type scored struct {
		pos   int
		score float64
	}
	var hits []scored
	for i, sc := range scores {
		if sc <= 0 || !candidates.Contains(subjects[i].ID()) {
			continue
		}
		hits = append(hits, scored{pos: i, score: min(sc, 1)})
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].score > hits[b].score })
	if len(hits) > topN {
		hits = hits[:topN]
	}

	items := make([]Item, len(hits))
	for k, h := range hits {
		s := subjects[h.pos]
		items[k] = NewItem(s, h.score, annotate(s.Tags(), terms))
	}
	return items, nil
}
