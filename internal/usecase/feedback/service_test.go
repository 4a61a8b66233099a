package feedback

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/kailas-cloud/thesisrec/internal/domain"
	"github.com/kailas-cloud/thesisrec/internal/domain/feedback"
	"github.com/kailas-cloud/thesisrec/internal/domain/program"
	"github.com/kailas-cloud/thesisrec/internal/domain/subject"
)

// --- Mocks ---

type mockRepo struct {
	saved   []feedback.Feedback
	saveErr error
}

func (m *mockRepo) Save(_ context.Context, f feedback.Feedback) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	for i := range m.saved {
		if m.saved[i].Username() == f.Username() && m.saved[i].SubjectID() == f.SubjectID() {
			m.saved[i] = f
			return nil
		}
	}
	m.saved = append(m.saved, f)
	return nil
}

func (m *mockRepo) ListBySubject(_ context.Context, subjectID string) ([]feedback.Feedback, error) {
	var out []feedback.Feedback
	for _, f := range m.saved {
		if f.SubjectID() == subjectID {
			out = append(out, f)
		}
	}
	return out, nil
}

type mockCatalog struct {
	subjects map[string]subject.Subject
}

func (m *mockCatalog) Subject(id string) (subject.Subject, error) {
	s, ok := m.subjects[id]
	if !ok {
		return subject.Subject{}, domain.ErrNotFound
	}
	return s, nil
}

func newService(t *testing.T) (*Service, *mockRepo) {
	t.Helper()
	s, err := subject.New("42", "Détection d'intrusion", program.GI, []string{"securite"})
	if err != nil {
		t.Fatal(err)
	}
	repo := &mockRepo{}
	return New(repo, &mockCatalog{subjects: map[string]subject.Subject{"42": s}}), repo
}

// --- Tests ---

func TestSubmit(t *testing.T) {
	svc, repo := newService(t)
	f, err := svc.Submit(context.Background(), "alice", "42", 4, "great topic")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if f.Rating() != 4 || f.CreatedAt() == 0 {
		t.Errorf("unexpected feedback %+v", f)
	}
	if len(repo.saved) != 1 {
		t.Fatalf("saved %d, want 1", len(repo.saved))
	}
}

func TestSubmit_UnknownSubject(t *testing.T) {
	svc, repo := newService(t)
	_, err := svc.Submit(context.Background(), "alice", "missing", 4, "")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(repo.saved) != 0 {
		t.Error("nothing should be saved")
	}
}

func TestSubmit_InvalidRating(t *testing.T) {
	svc, _ := newService(t)
	for _, r := range []int{0, 6, -1} {
		if _, err := svc.Submit(context.Background(), "alice", "42", r, ""); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("rating %d: expected ErrValidation, got %v", r, err)
		}
	}
}

func TestSubmit_StoreError(t *testing.T) {
	svc, repo := newService(t)
	repo.saveErr = errors.New("boom")
	if _, err := svc.Submit(context.Background(), "alice", "42", 3, ""); err == nil {
		t.Fatal("expected error")
	}
}

func TestSummary(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	sum, err := svc.Summary(ctx, "42")
	if err != nil {
		t.Fatal(err)
	}
	if sum.Count != 0 || sum.Average != 0 {
		t.Errorf("empty summary = %+v", sum)
	}

	for _, tc := range []struct {
		user   string
		rating int
	}{{"alice", 2}, {"bob", 5}, {"alice", 4}} {
		if _, err := svc.Submit(ctx, tc.user, "42", tc.rating, ""); err != nil {
			t.Fatal(err)
		}
	}

	sum, err = svc.Summary(ctx, "42")
	if err != nil {
		t.Fatal(err)
	}
	if sum.Count != 2 {
		t.Errorf("Count = %d, want 2 (resubmission overwrites)", sum.Count)
	}
	if math.Abs(sum.Average-4.5) > 1e-9 {
		t.Errorf("Average = %v, want 4.5", sum.Average)
	}

	if _, err := svc.Summary(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
