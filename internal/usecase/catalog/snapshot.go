package catalog

import (
	"time"

	"github.com/kailas-cloud/thesisrec/internal/domain/program"
	"github.com/kailas-cloud/thesisrec/internal/domain/recommendation"
	"github.com/kailas-cloud/thesisrec/internal/domain/subject"
	"github.com/kailas-cloud/thesisrec/internal/domain/vectorspace"
)

// Snapshot is one published corpus version. It is never mutated after publication.
type Snapshot struct {
	subjects      []subject.Subject
	space         *vectorspace.Space
	technicalTags []string
	version       int64
	builtAt       time.Time
}

// Subjects returns the corpus in vector-space order. Callers must not modify it.
func (s *Snapshot) Subjects() []subject.Subject { return s.subjects }

// Space returns the vector space built from Subjects.
func (s *Snapshot) Space() *vectorspace.Space { return s.space }

// TechnicalTags returns the distinct non-program tags, sorted.
func (s *Snapshot) TechnicalTags() []string { return s.technicalTags }

// Version returns the corpus version, increasing with every publication.
func (s *Snapshot) Version() int64 { return s.version }

// BuiltAt returns when the vector space was built.
func (s *Snapshot) BuiltAt() time.Time { return s.builtAt }

// Len returns the number of subjects.
func (s *Snapshot) Len() int { return len(s.subjects) }

// Subject looks a subject up by ID.
func (s *Snapshot) Subject(id string) (subject.Subject, bool) {
	i, ok := s.space.IndexOf(id)
	if !ok {
		return subject.Subject{}, false
	}
	return s.subjects[i], true
}

// Positions returns the corpus positions of subjects in program p (all for program.Any).
func (s *Snapshot) Positions(p program.Program) []int {
	out := make([]int, 0, len(s.subjects))
	for i := range s.subjects {
		if p == program.Any || s.subjects[i].Program() == p {
			out = append(out, i)
		}
	}
	return out
}

// Filter returns the subjects of program p in corpus order.
func (s *Snapshot) Filter(p program.Program) []subject.Subject {
	if p == program.Any {
		return s.subjects
	}
	pos := s.Positions(p)
	out := make([]subject.Subject, len(pos))
	for k, i := range pos {
		out[k] = s.subjects[i]
	}
	return out
}

// Candidates returns the candidate set for program p; nil means no filter.
func (s *Snapshot) Candidates(p program.Program) recommendation.Candidates {
	if p == program.Any {
		return nil
	}
	pos := s.Positions(p)
	ids := make([]string, len(pos))
	for k, i := range pos {
		ids[k] = s.subjects[i].ID()
	}
	return recommendation.NewCandidates(ids...)
}
