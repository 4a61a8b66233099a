package domain

import (
	"context"
	"testing"
)

func TestLLMUsage(t *testing.T) {
	ctx, u := NewContextWithUsage(context.Background())
	if got := UsageFromContext(ctx); got != u {
		t.Fatal("UsageFromContext returned a different collector")
	}

	UsageFromContext(ctx).AddTokens(12)
	UsageFromContext(ctx).AddTokens(0)
	if u.TotalTokens != 12 || !u.Used {
		t.Errorf("usage = %+v", *u)
	}
}

func TestLLMUsage_NilSafe(t *testing.T) {
	u := UsageFromContext(context.Background())
	if u != nil {
		t.Fatal("expected nil collector")
	}
	u.AddTokens(5) // must not panic
}
