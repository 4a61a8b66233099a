package elaborate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/thesisrec/internal/domain"
)

// --- Mock BudgetStore ---

type mockBudgetStore struct {
	mu     sync.Mutex
	data   map[string]int64
	getErr error
	setErr error
}

func newMockBudgetStore() *mockBudgetStore {
	return &mockBudgetStore{data: make(map[string]int64)}
}

func (m *mockBudgetStore) IncrBy(_ context.Context, key string, val int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] += val
	return nil
}

func (m *mockBudgetStore) Get(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return 0, m.getErr
	}
	return m.data[key], nil
}

// newTrackerAt pins the tracker clock to a mutable instant.
func newTrackerAt(t *testing.T, now *time.Time, daily, monthly int64, action BudgetAction) *BudgetTracker {
	t.Helper()
	bt := NewBudgetTracker("openai", "thesisrec:", daily, monthly, action, zap.NewNop())
	bt.now = func() time.Time { return *now }
	bt.lastDayReset = truncateToDay(*now)
	bt.lastMonthReset = truncateToMonth(*now)
	return bt
}

// --- Tests ---

func TestBudgetTracker_Check(t *testing.T) {
	tests := []struct {
		name    string
		daily   int64
		monthly int64
		action  BudgetAction
		record  int64
		wantErr bool
	}{
		{"below limit", 1000, 10000, BudgetActionReject, 500, false},
		{"daily reached reject", 100, 0, BudgetActionReject, 100, true},
		{"monthly reached reject", 0, 500, BudgetActionReject, 500, true},
		{"exceeded warn", 100, 0, BudgetActionWarn, 200, false},
		{"unlimited", 0, 0, BudgetActionReject, 999999999, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			bt := NewBudgetTracker("test", "", tc.daily, tc.monthly, tc.action, zap.NewNop())
			bt.Record(tc.record)
			err := bt.Check(context.Background())
			if tc.wantErr && !errors.Is(err, domain.ErrLLMQuotaExceeded) {
				t.Fatalf("expected ErrLLMQuotaExceeded, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestBudgetTracker_Remaining(t *testing.T) {
	bt := NewBudgetTracker("test", "", 1000, 10000, BudgetActionWarn, zap.NewNop())
	bt.Record(300)
	if got := bt.RemainingDaily(); got != 700 {
		t.Errorf("RemainingDaily() = %d, want 700", got)
	}
	if got := bt.RemainingMonthly(); got != 9700 {
		t.Errorf("RemainingMonthly() = %d, want 9700", got)
	}

	bt.Record(5000)
	if got := bt.RemainingDaily(); got != 0 {
		t.Errorf("RemainingDaily() = %d, want 0 once exceeded", got)
	}

	unlimited := NewBudgetTracker("test", "", 0, 0, BudgetActionWarn, zap.NewNop())
	if unlimited.RemainingDaily() != -1 || unlimited.RemainingMonthly() != -1 {
		t.Error("expected -1 for unlimited budgets")
	}
}

func TestBudgetTracker_Rollover(t *testing.T) {
	now := time.Date(2026, 10, 31, 23, 0, 0, 0, time.UTC)
	bt := newTrackerAt(t, &now, 100, 1000, BudgetActionReject)

	bt.Record(100)
	if err := bt.Check(context.Background()); err == nil {
		t.Fatal("expected quota error before rollover")
	}

	now = now.Add(2 * time.Hour) // 2026-11-01: new day and new month
	if err := bt.Check(context.Background()); err != nil {
		t.Fatalf("expected reset after rollover, got %v", err)
	}
	if bt.RemainingMonthly() != 1000 {
		t.Errorf("RemainingMonthly() = %d, want 1000", bt.RemainingMonthly())
	}
}

func TestBudgetTracker_WithStore(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	store := newMockBudgetStore()
	store.data["thesisrec:budget:openai:daily:2026-10-19"] = 300
	store.data["thesisrec:budget:openai:monthly:2026-10"] = 5000

	bt := newTrackerAt(t, &now, 1000, 10000, BudgetActionWarn).WithStore(context.Background(), store)
	if got := bt.RemainingDaily(); got != 700 {
		t.Errorf("RemainingDaily() = %d, want 700", got)
	}

	bt.Record(42)
	bt.Record(8)

	store.mu.Lock()
	defer store.mu.Unlock()
	if got := store.data["thesisrec:budget:openai:daily:2026-10-19"]; got != 350 {
		t.Errorf("stored daily = %d, want 350", got)
	}
	if got := store.data["thesisrec:budget:openai:monthly:2026-10"]; got != 5050 {
		t.Errorf("stored monthly = %d, want 5050", got)
	}
}

func TestBudgetTracker_StoreErrors(t *testing.T) {
	store := newMockBudgetStore()
	store.getErr = errors.New("connection refused")

	bt := NewBudgetTracker("prov", "", 1000, 10000, BudgetActionWarn, zap.NewNop()).
		WithStore(context.Background(), store)
	if bt.RemainingDaily() != 1000 {
		t.Errorf("expected a fresh budget on load error, got %d", bt.RemainingDaily())
	}

	store.mu.Lock()
	store.setErr = errors.New("write timeout")
	store.mu.Unlock()

	bt.Record(50)
	if bt.RemainingDaily() != 950 {
		t.Errorf("in-memory counter must advance on store error, got %d", bt.RemainingDaily())
	}
}
