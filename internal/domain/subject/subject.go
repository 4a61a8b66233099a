// Package subject defines the recommendable thesis subject.
package subject

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/thesisrec/internal/domain/program"
)

// TagSeparator delimits tags in the source and combined text.
const TagSeparator = ";"

// MaxIDLength bounds externally assigned identifiers.
const MaxIDLength = 256

// Subject is one thesis subject (immutable value object).
type Subject struct {
	id      string
	title   string
	program program.Program
	tags    []string
}

// New validates and creates a Subject.
// Tags are lowercased and trimmed; empty tags are dropped, duplicates kept.
func New(id, title string, p program.Program, tags []string) (Subject, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Subject{}, fmt.Errorf("subject ID is required")
	}
	if len(id) > MaxIDLength {
		return Subject{}, fmt.Errorf("subject ID too long (max %d)", MaxIDLength)
	}
	if !p.IsValid() {
		return Subject{}, fmt.Errorf("invalid program: %q", p)
	}
	return Subject{
		id:      id,
		title:   strings.TrimSpace(title),
		program: p,
		tags:    normalizeTags(tags),
	}, nil
}

// Reconstruct creates a Subject without validation (storage hydration).
func Reconstruct(id, title string, p program.Program, tags []string) Subject {
	return Subject{id: id, title: title, program: p, tags: tags}
}

// ID returns the subject identifier.
func (s *Subject) ID() string { return s.id }

// Title returns the display title.
func (s *Subject) Title() string { return s.title }

// Program returns the program affiliation.
func (s *Subject) Program() program.Program { return s.program }

// Tags returns a copy of the ordered tags.
func (s *Subject) Tags() []string {
	out := make([]string, len(s.tags))
	copy(out, s.tags)
	return out
}

// TagString joins tags with the source separator.
func (s *Subject) TagString() string { return strings.Join(s.tags, TagSeparator) }

// CombinedText is the vectorization input: lowercase title followed by tags.
// Always derived, never stored.
func (s *Subject) CombinedText() string {
	return strings.ToLower(s.title) + " " + s.TagString()
}

// SplitTags splits a separator-delimited tag string.
func SplitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	return normalizeTags(strings.Split(raw, TagSeparator))
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}
