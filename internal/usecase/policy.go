package usecase

import (
	"context"
	"time"

	"github.com/loyaltyhub/rewardmart/internal/cache"
	"github.com/loyaltyhub/rewardmart/internal/domain/model"
	"github.com/loyaltyhub/rewardmart/internal/domain/repository"
)

const defaultExpiryWindowDays = 30

// PolicyUseCase manages merchant reward policies and the reports derived
// from them.
type PolicyUseCase struct {
	policies     repository.PolicyRepository
	transactions repository.TransactionRepository
	ledger       repository.LedgerRepository
	cache        cache.PolicyCache
}

// NewPolicyUseCase constructs PolicyUseCase.
func NewPolicyUseCase(p repository.PolicyRepository, t repository.TransactionRepository, l repository.LedgerRepository, c cache.PolicyCache) *PolicyUseCase {
	return &PolicyUseCase{policies: p, transactions: t, ledger: l, cache: c}
}

// Upsert validates and stores a merchant's policy with create-or-replace
// semantics. Returns whether a new policy was created. The cached copy is
// invalidated so purchases pick up the new rules immediately.
func (u *PolicyUseCase) Upsert(ctx context.Context, policy *model.RewardPolicy) (*model.RewardPolicy, bool, error) {
	if err := ValidatePolicy(policy); err != nil {
		return nil, false, err
	}

	stored, created, err := u.policies.Upsert(ctx, policy)
	if err != nil {
		return nil, false, err
	}
	_ = u.cache.Invalidate(ctx, policy.MerchantID)
	return stored, created, nil
}

// Get returns the merchant's active policy, reading through the cache.
func (u *PolicyUseCase) Get(ctx context.Context, merchantID int64) (*model.RewardPolicy, error) {
	if cached, err := u.cache.Get(ctx, merchantID); err == nil && cached != nil {
		return cached, nil
	}

	policy, err := u.policies.GetByMerchant(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	_ = u.cache.Set(ctx, merchantID, policy)
	return policy, nil
}

// Delete removes the merchant's policy. Purchases fail with ErrNoPolicy
// until a new one is created.
func (u *PolicyUseCase) Delete(ctx context.Context, merchantID int64) error {
	if err := u.policies.Delete(ctx, merchantID); err != nil {
		return err
	}
	return u.cache.Invalidate(ctx, merchantID)
}

// UpsertCategoryRule adds or replaces one category rule on the existing
// policy, keyed by category name.
func (u *PolicyUseCase) UpsertCategoryRule(ctx context.Context, merchantID int64, rule model.CategoryRule) (*model.RewardPolicy, error) {
	policy, err := u.policies.GetByMerchant(ctx, merchantID)
	if err != nil {
		return nil, err
	}

	replaced := false
	for i, existing := range policy.CategoryRules {
		if existing.Category == rule.Category {
			policy.CategoryRules[i] = rule
			replaced = true
			break
		}
	}
	if !replaced {
		policy.CategoryRules = append(policy.CategoryRules, rule)
	}

	stored, _, err := u.Upsert(ctx, policy)
	return stored, err
}

// UpsertThreshold adds or replaces one spend threshold, keyed by its
// minimum amount.
func (u *PolicyUseCase) UpsertThreshold(ctx context.Context, merchantID int64, threshold model.SpendThreshold) (*model.RewardPolicy, error) {
	policy, err := u.policies.GetByMerchant(ctx, merchantID)
	if err != nil {
		return nil, err
	}

	replaced := false
	for i, existing := range policy.SpendThresholds {
		if existing.MinAmount.Equal(threshold.MinAmount) {
			policy.SpendThresholds[i] = threshold
			replaced = true
			break
		}
	}
	if !replaced {
		policy.SpendThresholds = append(policy.SpendThresholds, threshold)
	}

	stored, _, err := u.Upsert(ctx, policy)
	return stored, err
}

// Summary aggregates transaction totals across a merchant's customers.
func (u *PolicyUseCase) Summary(ctx context.Context, merchantID int64) (*model.MerchantSummary, error) {
	return u.transactions.SummaryByMerchant(ctx, merchantID)
}

// ExpiringSoon reports customers whose points expire within windowDays.
func (u *PolicyUseCase) ExpiringSoon(ctx context.Context, merchantID int64, windowDays int) ([]model.ExpiringPoints, error) {
	if windowDays <= 0 {
		windowDays = defaultExpiryWindowDays
	}
	window := time.Duration(windowDays) * 24 * time.Hour
	return u.ledger.ExpiringByMerchant(ctx, merchantID, window)
}
