package recommendation

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/thesisrec/internal/domain"
	"github.com/kailas-cloud/thesisrec/internal/domain/program"
	"github.com/kailas-cloud/thesisrec/internal/domain/subject"
)

func makeSubjects(t *testing.T, n int) []subject.Subject {
	t.Helper()
	out := make([]subject.Subject, n)
	for i := range n {
		s, err := subject.New(string(rune('a'+i)), "title", program.GI, []string{"ia", "image"})
		if err != nil {
			t.Fatalf("subject.New: %v", err)
		}
		out[i] = s
	}
	return out
}

func ids(items []Item) []string {
	out := make([]string, len(items))
	for i := range items {
		s := items[i].Subject()
		out[i] = s.ID()
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRank_OrderAndThreshold(t *testing.T) {
	subjects := makeSubjects(t, 5)
	scores := []float64{0.2, 0, 0.9, 0.2, -0.1}

	items, err := Rank(scores, subjects, nil, 10, nil)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if got, want := ids(items), []string{"c", "a", "d"}; !equal(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
	for _, it := range items {
		if it.Score() <= 0 {
			t.Errorf("non-positive score returned: %f", it.Score())
		}
	}
}

func TestRank_TopN(t *testing.T) {
	subjects := makeSubjects(t, 3)
	items, err := Rank([]float64{0.3, 0.8, 0.1}, subjects, nil, 1, nil)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if got := ids(items); !equal(got, []string{"b"}) {
		t.Errorf("got %v, want [b]", got)
	}
}

func TestRank_DefaultTopN(t *testing.T) {
	subjects := makeSubjects(t, 20)
	scores := make([]float64, 20)
	for i := range scores {
		scores[i] = 0.5
	}
	items, err := Rank(scores, subjects, nil, 0, nil)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(items) != DefaultTopN {
		t.Errorf("len = %d, want %d", len(items), DefaultTopN)
	}
}

func TestRank_CandidatesFilterAfterScoring(t *testing.T) {
	subjects := makeSubjects(t, 4)
	scores := []float64{0.4, 0.9, 0.6, 0.1}

	all, _ := Rank(scores, subjects, nil, 10, nil)
	filtered, err := Rank(scores, subjects, NewCandidates("a", "d", "c"), 10, nil)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if got := ids(filtered); !equal(got, []string{"c", "a", "d"}) {
		t.Errorf("filtered = %v", got)
	}

	// relative order of survivors matches the unfiltered ranking
	pos := map[string]int{}
	for i, id := range ids(all) {
		pos[id] = i
	}
	f := ids(filtered)
	for i := 1; i < len(f); i++ {
		if pos[f[i-1]] > pos[f[i]] {
			t.Errorf("filter re-ranked %s and %s", f[i-1], f[i])
		}
	}
}

func TestRank_ContractViolations(t *testing.T) {
	subjects := makeSubjects(t, 2)
	if _, err := Rank([]float64{1}, subjects, nil, 5, nil); !errors.Is(err, domain.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
	if _, err := Rank([]float64{1, 1}, subjects, NewCandidates("zz"), 5, nil); !errors.Is(err, domain.ErrUnknownSubject) {
		t.Errorf("expected ErrUnknownSubject, got %v", err)
	}
}

func TestRank_ClampsScore(t *testing.T) {
	subjects := makeSubjects(t, 1)
	items, _ := Rank([]float64{1.0000000002}, subjects, nil, 5, nil)
	if items[0].Score() != 1 {
		t.Errorf("score = %v, want 1", items[0].Score())
	}
}

func TestRank_Annotation(t *testing.T) {
	subjects := makeSubjects(t, 1)
	terms := map[string]struct{}{"image": {}}
	items, _ := Rank([]float64{0.5}, subjects, nil, 5, terms)
	if got := items[0].Annotation(); got != "ia, **image**" {
		t.Errorf("Annotation() = %q", got)
	}
	if m := items[0].MatchedTags(); len(m) != 1 || m[0] != "image" {
		t.Errorf("MatchedTags() = %v", m)
	}
}

func TestResult(t *testing.T) {
	r := NewResult("q", nil)
	if !r.IsEmpty() || r.Reason() != ReasonNoMatch {
		t.Errorf("empty result: reason=%q", r.Reason())
	}

	e := Empty("q", ReasonEmptyQuery)
	if e.Reason() != ReasonEmptyQuery || e.Query() != "q" {
		t.Errorf("Empty() = %+v", e)
	}

	items, _ := Rank([]float64{0.5, 0.4}, makeSubjects(t, 2), nil, 5, nil)
	full := NewResult("q", items)
	if full.IsEmpty() || full.Reason() != ReasonNone || full.Len() != 2 {
		t.Errorf("full result: %+v", full)
	}
	if len(full.Top(1)) != 1 || len(full.Top(10)) != 2 {
		t.Error("Top() truncation wrong")
	}
}
