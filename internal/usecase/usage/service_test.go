package usage

import (
	"context"
	"testing"
	"time"
)

// --- Mock ---

type mockBudgetReader struct {
	dailyLimit       int64
	monthlyLimit     int64
	dailyUsed        int64
	monthlyUsed      int64
	remainingDaily   int64
	remainingMonthly int64
}

func (m *mockBudgetReader) DailyLimit() int64       { return m.dailyLimit }
func (m *mockBudgetReader) MonthlyLimit() int64     { return m.monthlyLimit }
func (m *mockBudgetReader) DailyUsed() int64        { return m.dailyUsed }
func (m *mockBudgetReader) MonthlyUsed() int64      { return m.monthlyUsed }
func (m *mockBudgetReader) RemainingDaily() int64   { return m.remainingDaily }
func (m *mockBudgetReader) RemainingMonthly() int64 { return m.remainingMonthly }

func fixedService(br BudgetReader) *Service {
	svc := New(br)
	svc.now = func() time.Time { return time.Date(2026, 10, 19, 15, 30, 0, 0, time.UTC) }
	return svc
}

// --- Tests ---

func TestGetReport_Day(t *testing.T) {
	svc := fixedService(&mockBudgetReader{
		dailyLimit: 10000, dailyUsed: 3000, remainingDaily: 7000,
		monthlyLimit: 100000, monthlyUsed: 50000, remainingMonthly: 50000,
	})
	r := svc.GetReport(context.Background(), PeriodDay)

	if r.Used != 3000 || r.Limit != 10000 || r.Remaining != 7000 || r.Exhausted {
		t.Errorf("unexpected report %+v", r)
	}
	if !r.PeriodStart.Equal(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("PeriodStart = %v", r.PeriodStart)
	}
	if r.PeriodEnd.Sub(r.PeriodStart) != 24*time.Hour {
		t.Errorf("period length = %v", r.PeriodEnd.Sub(r.PeriodStart))
	}
}

func TestGetReport_MonthExhausted(t *testing.T) {
	svc := fixedService(&mockBudgetReader{monthlyLimit: 500, monthlyUsed: 600, remainingMonthly: 0})
	r := svc.GetReport(context.Background(), PeriodMonth)

	if !r.Exhausted {
		t.Error("expected exhausted budget")
	}
	if !r.PeriodEnd.Equal(time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("PeriodEnd = %v", r.PeriodEnd)
	}
}

func TestGetReport_Unlimited(t *testing.T) {
	for _, br := range []BudgetReader{nil, &mockBudgetReader{remainingDaily: -1, dailyUsed: 42}} {
		r := fixedService(br).GetReport(context.Background(), PeriodDay)
		if r.Limit != -1 || r.Remaining != -1 || r.Exhausted {
			t.Errorf("unexpected unlimited report %+v", r)
		}
	}
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in   string
		want Period
		ok   bool
	}{
		{"", PeriodMonth, true},
		{"month", PeriodMonth, true},
		{"DAY", PeriodDay, true},
		{"year", "", false},
	}
	for _, tc := range tests {
		got, ok := ParsePeriod(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParsePeriod(%q) = %q, %v", tc.in, got, ok)
		}
	}
}
