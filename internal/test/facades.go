package test

import (
	"context"
	"sync"

	"github.com/loyaltyhub/rewardmart/internal/domain/model"
)

// PolicyFacadeStub provides controllable behaviour for policy endpoints.
type PolicyFacadeStub struct {
	UpsertFn         func(context.Context, *model.RewardPolicy) (*model.RewardPolicy, bool, error)
	PolicyFn         func(context.Context, int64) (*model.RewardPolicy, error)
	DeleteFn         func(context.Context, int64) error
	UpsertCategoryFn func(context.Context, int64, model.CategoryRule) (*model.RewardPolicy, error)
	UpsertTholdFn    func(context.Context, int64, model.SpendThreshold) (*model.RewardPolicy, error)
	SummaryFn        func(context.Context, int64) (*model.MerchantSummary, error)
	ExpiringFn       func(context.Context, int64, int) ([]model.ExpiringPoints, error)
}

// UpsertPolicy delegates or reports a fresh create.
func (s PolicyFacadeStub) UpsertPolicy(ctx context.Context, policy *model.RewardPolicy) (*model.RewardPolicy, bool, error) {
	if s.UpsertFn != nil {
		return s.UpsertFn(ctx, policy)
	}
	return policy, true, nil
}

// Policy delegates or returns a minimal policy.
func (s PolicyFacadeStub) Policy(ctx context.Context, merchantID int64) (*model.RewardPolicy, error) {
	if s.PolicyFn != nil {
		return s.PolicyFn(ctx, merchantID)
	}
	return &model.RewardPolicy{MerchantID: merchantID}, nil
}

// DeletePolicy delegates or succeeds.
func (s PolicyFacadeStub) DeletePolicy(ctx context.Context, merchantID int64) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, merchantID)
	}
	return nil
}

// UpsertCategoryRule delegates or echoes a policy with the rule.
func (s PolicyFacadeStub) UpsertCategoryRule(ctx context.Context, merchantID int64, rule model.CategoryRule) (*model.RewardPolicy, error) {
	if s.UpsertCategoryFn != nil {
		return s.UpsertCategoryFn(ctx, merchantID, rule)
	}
	return &model.RewardPolicy{MerchantID: merchantID, CategoryRules: []model.CategoryRule{rule}}, nil
}

// UpsertThreshold delegates or echoes a policy with the threshold.
func (s PolicyFacadeStub) UpsertThreshold(ctx context.Context, merchantID int64, threshold model.SpendThreshold) (*model.RewardPolicy, error) {
	if s.UpsertTholdFn != nil {
		return s.UpsertTholdFn(ctx, merchantID, threshold)
	}
	return &model.RewardPolicy{MerchantID: merchantID, SpendThresholds: []model.SpendThreshold{threshold}}, nil
}

// PolicySummary delegates or returns zeroes.
func (s PolicyFacadeStub) PolicySummary(ctx context.Context, merchantID int64) (*model.MerchantSummary, error) {
	if s.SummaryFn != nil {
		return s.SummaryFn(ctx, merchantID)
	}
	return &model.MerchantSummary{}, nil
}

// ExpiringSoon delegates or returns nothing.
func (s PolicyFacadeStub) ExpiringSoon(ctx context.Context, merchantID int64, windowDays int) ([]model.ExpiringPoints, error) {
	if s.ExpiringFn != nil {
		return s.ExpiringFn(ctx, merchantID, windowDays)
	}
	return nil, nil
}

// CustomerFacadeStub simulates customer plumbing.
type CustomerFacadeStub struct {
	CreateFn func(context.Context, int64, string, string) (*model.CustomerAccount, error)
	ListFn   func(context.Context, int64) ([]model.CustomerAccount, error)
}

// CreateCustomer delegates or returns a fresh account.
func (s CustomerFacadeStub) CreateCustomer(ctx context.Context, merchantID int64, name, email string) (*model.CustomerAccount, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, merchantID, name, email)
	}
	return &model.CustomerAccount{ID: 1, MerchantID: merchantID, Name: name, Email: email}, nil
}

// Customers delegates or returns nothing.
func (s CustomerFacadeStub) Customers(ctx context.Context, merchantID int64) ([]model.CustomerAccount, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, merchantID)
	}
	return nil, nil
}

// PurchaseFacadeStub simulates the transaction engine.
type PurchaseFacadeStub struct {
	RecordFn func(context.Context, model.PurchaseRequest) (*model.PurchaseResult, error)
	SpinFn   func(context.Context, int64, int64) (*model.SpinResult, error)
}

// RecordPurchase delegates or returns an empty result.
func (s PurchaseFacadeStub) RecordPurchase(ctx context.Context, req model.PurchaseRequest) (*model.PurchaseResult, error) {
	if s.RecordFn != nil {
		return s.RecordFn(ctx, req)
	}
	return &model.PurchaseResult{}, nil
}

// Spin delegates or returns an empty result.
func (s PurchaseFacadeStub) Spin(ctx context.Context, customerID, merchantID int64) (*model.SpinResult, error) {
	if s.SpinFn != nil {
		return s.SpinFn(ctx, customerID, merchantID)
	}
	return &model.SpinResult{}, nil
}

// BalanceFacadeStub simulates balance reads.
type BalanceFacadeStub struct {
	BalanceFn func(context.Context, int64) (*model.BalanceDetails, error)
	HistoryFn func(context.Context, int64) ([]model.Transaction, error)
}

// Balance delegates or returns default details.
func (s BalanceFacadeStub) Balance(ctx context.Context, customerID int64) (*model.BalanceDetails, error) {
	if s.BalanceFn != nil {
		return s.BalanceFn(ctx, customerID)
	}
	return &model.BalanceDetails{Balance: 10}, nil
}

// History delegates or returns nothing.
func (s BalanceFacadeStub) History(ctx context.Context, customerID int64) ([]model.Transaction, error) {
	if s.HistoryFn != nil {
		return s.HistoryFn(ctx, customerID)
	}
	return nil, nil
}

// RewardFacadeStub aggregates the individual facade stubs for router and
// app tests.
type RewardFacadeStub struct {
	PolicyFacadeStub
	CustomerFacadeStub
	PurchaseFacadeStub
	BalanceFacadeStub
}

// CompactionFacadeStub drives the ledger compactor in worker tests.
type CompactionFacadeStub struct {
	sync.Mutex

	Batches   [][]int64
	CompactFn func(context.Context, int64) (int64, error)
	Compacted []int64

	calls int
}

// CustomersForCompaction serves configured batches one per call.
func (s *CompactionFacadeStub) CustomersForCompaction(ctx context.Context, limit int) ([]int64, error) {
	s.Lock()
	defer s.Unlock()
	if s.calls >= len(s.Batches) {
		return nil, nil
	}
	batch := s.Batches[s.calls]
	s.calls++
	return batch, nil
}

// CompactLedger records the call and delegates when configured.
func (s *CompactionFacadeStub) CompactLedger(ctx context.Context, customerID int64) (int64, error) {
	s.Lock()
	s.Compacted = append(s.Compacted, customerID)
	s.Unlock()
	if s.CompactFn != nil {
		return s.CompactFn(ctx, customerID)
	}
	return 1, nil
}
