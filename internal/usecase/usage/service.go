// Package usage reports LLM token consumption against the configured budget.
package usage

import (
	"context"
	"strings"
	"time"
)

// Period is the reporting window.
type Period string

// Reporting windows.
const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
)

// ParsePeriod parses a period name. Empty means month.
func ParsePeriod(s string) (Period, bool) {
	switch Period(strings.ToLower(strings.TrimSpace(s))) {
	case "", PeriodMonth:
		return PeriodMonth, true
	case PeriodDay:
		return PeriodDay, true
	}
	return "", false
}

// Report is the token usage of one period. Limit and Remaining are -1 when unlimited.
type Report struct {
	Period      Period
	PeriodStart time.Time
	PeriodEnd   time.Time
	Used        int64
	Limit       int64
	Remaining   int64
	Exhausted   bool
}

// Service handles usage reporting.
type Service struct {
	br  BudgetReader
	now func() time.Time
}

// New creates a Service. br can be nil (no budget tracking).
func New(br BudgetReader) *Service {
	return &Service{br: br, now: func() time.Time { return time.Now().UTC() }}
}

// GetReport builds a usage report for the given period.
func (s *Service) GetReport(_ context.Context, period Period) Report {
	now := s.now()
	r := Report{Period: period, Limit: -1, Remaining: -1}

	switch period {
	case PeriodDay:
		r.PeriodStart = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		r.PeriodEnd = r.PeriodStart.Add(24 * time.Hour)
		if s.br != nil {
			r.Used, r.Remaining = s.br.DailyUsed(), s.br.RemainingDaily()
			r.Limit = limitOrUnlimited(s.br.DailyLimit())
		}
	default:
		r.Period = PeriodMonth
		r.PeriodStart = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		r.PeriodEnd = r.PeriodStart.AddDate(0, 1, 0)
		if s.br != nil {
			r.Used, r.Remaining = s.br.MonthlyUsed(), s.br.RemainingMonthly()
			r.Limit = limitOrUnlimited(s.br.MonthlyLimit())
		}
	}

	r.Exhausted = r.Limit > 0 && r.Remaining == 0
	return r
}

func limitOrUnlimited(limit int64) int64 {
	if limit <= 0 {
		return -1
	}
	return limit
}
