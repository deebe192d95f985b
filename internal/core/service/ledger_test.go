package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/MishraAmit1/freightsynq-sub002/internal/core/domain"
)

func newTestLedger(repo *stubUsageRepo, limit int64, now time.Time) *CostLedger {
	l := NewCostLedger(repo, limit, zerolog.Nop())
	l.now = fixedClock(now)
	return l
}

func TestCostLedger_AbsentPeriodStartsAtZero(t *testing.T) {
	now := time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)
	l := newTestLedger(newStubUsageRepo(), 100, now)

	usage, ok, err := l.CheckQuota(context.Background(), l.Period())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected an unused period to be within limit")
	}
	if usage.Period != "2025-10" || usage.Calls != 0 || usage.CallLimit != 100 {
		t.Errorf("unexpected usage: %+v", usage)
	}
}

func TestCostLedger_RecordCallAccumulates(t *testing.T) {
	repo := newStubUsageRepo()
	l := newTestLedger(repo, 100, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC))
	cost, _ := domain.ParseMoney("2.50")

	for i := 0; i < 3; i++ {
		if _, err := l.RecordCall(context.Background(), "2025-10", cost); err != nil {
			t.Fatalf("record call: %v", err)
		}
	}

	usage, err := l.Usage(context.Background(), "2025-10")
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if usage.Calls != 3 {
		t.Errorf("expected 3 calls, got %d", usage.Calls)
	}
	if usage.Cost.String() != "7.50" {
		t.Errorf("expected cost 7.50, got %s", usage.Cost)
	}
}

func TestCostLedger_QuotaReachedAtLimit(t *testing.T) {
	repo := newStubUsageRepo()
	repo.periods["2025-10"] = &domain.UsagePeriod{Period: "2025-10", Calls: 100, CallLimit: 100}
	l := newTestLedger(repo, 500, time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC))

	usage, ok, err := l.CheckQuota(context.Background(), "2025-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected quota to be exhausted at calls == limit")
	}
	// The stored limit wins over the configured default.
	if usage.CallLimit != 100 {
		t.Errorf("expected stored limit 100, got %d", usage.CallLimit)
	}
}

func TestCostLedger_NewMonthResets(t *testing.T) {
	repo := newStubUsageRepo()
	repo.periods["2025-10"] = &domain.UsagePeriod{Period: "2025-10", Calls: 100, CallLimit: 100}
	l := newTestLedger(repo, 100, time.Date(2025, 11, 1, 0, 0, 1, 0, time.UTC))

	usage, ok, err := l.CheckQuota(context.Background(), l.Period())
	if err != nil || !ok {
		t.Fatalf("expected fresh period within limit, got ok=%v err=%v", ok, err)
	}
	if usage.Period != "2025-11" || usage.Calls != 0 {
		t.Errorf("unexpected usage: %+v", usage)
	}
}

func TestCostLedger_StoreError(t *testing.T) {
	repo := newStubUsageRepo()
	repo.getErr = errStore
	l := newTestLedger(repo, 100, time.Now())

	if _, _, err := l.CheckQuota(context.Background(), "2025-10"); !errors.Is(err, errStore) {
		t.Fatalf("expected store error, got %v", err)
	}
}
