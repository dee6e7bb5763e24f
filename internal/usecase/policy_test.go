package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/loyaltyhub/rewardmart/internal/domain/errors"
	"github.com/loyaltyhub/rewardmart/internal/domain/model"
	testhelpers "github.com/loyaltyhub/rewardmart/internal/test"
)

func newPolicyUseCase() (*PolicyUseCase, *testhelpers.PolicyRepositoryStub, *testhelpers.PolicyCacheStub, *testhelpers.LedgerRepositoryStub, *testhelpers.TransactionRepositoryStub) {
	policies := testhelpers.NewPolicyRepositoryStub()
	cache := testhelpers.NewPolicyCacheStub()
	ledger := testhelpers.NewLedgerRepositoryStub()
	transactions := &testhelpers.TransactionRepositoryStub{}
	return NewPolicyUseCase(policies, transactions, ledger, cache), policies, cache, ledger, transactions
}

func TestPolicyUpsertCreatesAndReplaces(t *testing.T) {
	uc, _, cache, _, _ := newPolicyUseCase()
	ctx := context.Background()

	_, created, err := uc.Upsert(ctx, validPolicy(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatal("expected first upsert to create")
	}

	replacement := validPolicy(1)
	replacement.PolicyName = "updated"
	stored, created, err := uc.Upsert(ctx, replacement)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Fatal("expected second upsert to replace")
	}
	if stored.PolicyName != "updated" {
		t.Fatalf("expected replacement to win, got %q", stored.PolicyName)
	}
	if len(cache.Invalidated) != 2 {
		t.Fatalf("expected cache invalidation on every write, got %d", len(cache.Invalidated))
	}
}

func TestPolicyUpsertRejectsInvalid(t *testing.T) {
	uc, policies, _, _, _ := newPolicyUseCase()

	bad := validPolicy(1)
	bad.RedemptionRate = decimal.Zero
	if _, _, err := uc.Upsert(context.Background(), bad); !errors.Is(err, domainErrors.ErrInvalidPolicy) {
		t.Fatalf("expected invalid policy error, got %v", err)
	}
	if policies.UpsertCalls != 0 {
		t.Fatal("invalid policy must not reach the repository")
	}
}

func TestPolicyGetReadsThroughCache(t *testing.T) {
	uc, policies, cache, _, _ := newPolicyUseCase()
	ctx := context.Background()

	if _, _, err := uc.Upsert(ctx, validPolicy(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := uc.Get(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.SetCalls != 1 {
		t.Fatalf("expected miss to populate cache, set calls=%d", cache.SetCalls)
	}

	// Second read must come from the cache, not the repository.
	policies.Err = errors.New("repository must not be hit")
	second, err := uc.Get(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.PolicyName != second.PolicyName {
		t.Fatal("cache returned a different policy")
	}
}

func TestPolicyGetNoPolicy(t *testing.T) {
	uc, _, _, _, _ := newPolicyUseCase()
	if _, err := uc.Get(context.Background(), 9); !errors.Is(err, domainErrors.ErrNoPolicy) {
		t.Fatalf("expected no policy error, got %v", err)
	}
}

func TestPolicyDeleteInvalidatesCache(t *testing.T) {
	uc, _, cache, _, _ := newPolicyUseCase()
	ctx := context.Background()

	if _, _, err := uc.Upsert(ctx, validPolicy(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uc.Get(ctx, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := uc.Delete(ctx, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uc.Get(ctx, 1); !errors.Is(err, domainErrors.ErrNoPolicy) {
		t.Fatalf("expected no policy after delete, got %v", err)
	}
	if len(cache.Invalidated) < 2 {
		t.Fatalf("expected delete to invalidate cache, invalidations=%v", cache.Invalidated)
	}
}

func TestPolicyUpsertCategoryRule(t *testing.T) {
	uc, _, _, _, _ := newPolicyUseCase()
	ctx := context.Background()

	if _, _, err := uc.Upsert(ctx, validPolicy(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Replace existing category.
	updated, err := uc.UpsertCategoryRule(ctx, 1, model.CategoryRule{
		Category: "grocery", Unit: decimal.NewFromInt(25), PointsPerUnit: 2, MinAmount: decimal.Zero,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated.CategoryRules) != 1 || updated.CategoryRules[0].PointsPerUnit != 2 {
		t.Fatalf("expected grocery rule replaced, got %+v", updated.CategoryRules)
	}

	// Add a new category.
	updated, err = uc.UpsertCategoryRule(ctx, 1, model.CategoryRule{
		Category: "fuel", Unit: decimal.NewFromInt(10), PointsPerUnit: 1, MinAmount: decimal.Zero,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated.CategoryRules) != 2 {
		t.Fatalf("expected new category appended, got %+v", updated.CategoryRules)
	}
}

func TestPolicyUpsertCategoryRuleWithoutPolicy(t *testing.T) {
	uc, _, _, _, _ := newPolicyUseCase()
	_, err := uc.UpsertCategoryRule(context.Background(), 5, model.CategoryRule{Category: "x", Unit: decimal.NewFromInt(1)})
	if !errors.Is(err, domainErrors.ErrNoPolicy) {
		t.Fatalf("expected no policy error, got %v", err)
	}
}

func TestPolicyUpsertThreshold(t *testing.T) {
	uc, _, _, _, _ := newPolicyUseCase()
	ctx := context.Background()

	if _, _, err := uc.Upsert(ctx, validPolicy(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Replace the existing 500 threshold.
	updated, err := uc.UpsertThreshold(ctx, 1, model.SpendThreshold{MinAmount: decimal.NewFromInt(500), BonusPoints: 75})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated.SpendThresholds) != 1 || updated.SpendThresholds[0].BonusPoints != 75 {
		t.Fatalf("expected threshold replaced, got %+v", updated.SpendThresholds)
	}

	// Add a new one.
	updated, err = uc.UpsertThreshold(ctx, 1, model.SpendThreshold{MinAmount: decimal.NewFromInt(1000), BonusPoints: 200})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated.SpendThresholds) != 2 {
		t.Fatalf("expected threshold appended, got %+v", updated.SpendThresholds)
	}
}

func TestPolicySummary(t *testing.T) {
	uc, _, _, _, transactions := newPolicyUseCase()
	transactions.SummaryVal = &model.MerchantSummary{
		TotalTransactions:   4,
		TotalPointsIssued:   100,
		TotalPointsRedeemed: 40,
		OutstandingPoints:   60,
	}

	summary, err := uc.Summary(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.OutstandingPoints != 60 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestPolicyExpiringSoonDefaultsWindow(t *testing.T) {
	uc, _, _, ledger, _ := newPolicyUseCase()

	var gotWindow time.Duration
	ledger.ExpiringFn = func(ctx context.Context, merchantID int64, window time.Duration) ([]model.ExpiringPoints, error) {
		gotWindow = window
		return []model.ExpiringPoints{{CustomerID: 3, ExpiringPoints: 12}}, nil
	}

	result, err := uc.ExpiringSoon(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotWindow != 30*24*time.Hour {
		t.Fatalf("expected default 30 day window, got %v", gotWindow)
	}
	if len(result) != 1 || result[0].ExpiringPoints != 12 {
		t.Fatalf("unexpected report: %+v", result)
	}
}
