package recommendation

import (
	"strings"

	"github.com/kailas-cloud/thesisrec/internal/domain/subject"
)

// MatchedTag is one of a subject's tags with its highlight flag.
type MatchedTag struct {
	Tag     string
	Matched bool
}

// Item is one ranked subject.
type Item struct {
	subject subject.Subject
	score   float64
	tags    []MatchedTag
}

// NewItem creates a ranked item.
func NewItem(s subject.Subject, score float64, tags []MatchedTag) Item {
	return Item{subject: s, score: score, tags: tags}
}

// Subject returns the ranked subject.
func (i *Item) Subject() subject.Subject { return i.subject }

// Score returns the cosine similarity in (0, 1].
func (i *Item) Score() float64 { return i.score }

// Tags returns the subject tags with highlight flags, in subject order.
func (i *Item) Tags() []MatchedTag { return i.tags }

// MatchedTags returns only the highlighted tags.
func (i *Item) MatchedTags() []string {
	var out []string
	for _, t := range i.tags {
		if t.Matched {
			out = append(out, t.Tag)
		}
	}
	return out
}

// Annotation renders tags for display, wrapping matched ones in **.
func (i *Item) Annotation() string {
	parts := make([]string, len(i.tags))
	for k, t := range i.tags {
		if t.Matched {
			parts[k] = "**" + t.Tag + "**"
		} else {
			parts[k] = t.Tag
		}
	}
	return strings.Join(parts, ", ")
}

// annotate flags every tag present in the query term set.
func annotate(tags []string, terms map[string]struct{}) []MatchedTag {
	out := make([]MatchedTag, len(tags))
	for k, t := range tags {
		_, hit := terms[strings.TrimSpace(t)]
		out[k] = MatchedTag{Tag: t, Matched: hit}
	}
	return out
}
