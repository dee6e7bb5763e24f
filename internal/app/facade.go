package app

import (
	"context"

	"github.com/loyaltyhub/rewardmart/internal/domain/model"
	"github.com/loyaltyhub/rewardmart/internal/usecase"
)

// RewardFacade bundles the usecases behind one surface consumed by the HTTP
// handlers and the background compactor.
type RewardFacade struct {
	policies    *usecase.PolicyUseCase
	customers   *usecase.CustomerUseCase
	purchases   *usecase.PurchaseUseCase
	balances    *usecase.BalanceUseCase
	maintenance *usecase.MaintenanceUseCase
}

// NewRewardFacade constructs RewardFacade.
func NewRewardFacade(
	policies *usecase.PolicyUseCase,
	customers *usecase.CustomerUseCase,
	purchases *usecase.PurchaseUseCase,
	balances *usecase.BalanceUseCase,
	maintenance *usecase.MaintenanceUseCase,
) *RewardFacade {
	return &RewardFacade{
		policies:    policies,
		customers:   customers,
		purchases:   purchases,
		balances:    balances,
		maintenance: maintenance,
	}
}

func (f *RewardFacade) UpsertPolicy(ctx context.Context, policy *model.RewardPolicy) (*model.RewardPolicy, bool, error) {
	return f.policies.Upsert(ctx, policy)
}

func (f *RewardFacade) Policy(ctx context.Context, merchantID int64) (*model.RewardPolicy, error) {
	return f.policies.Get(ctx, merchantID)
}

func (f *RewardFacade) DeletePolicy(ctx context.Context, merchantID int64) error {
	return f.policies.Delete(ctx, merchantID)
}

func (f *RewardFacade) UpsertCategoryRule(ctx context.Context, merchantID int64, rule model.CategoryRule) (*model.RewardPolicy, error) {
	return f.policies.UpsertCategoryRule(ctx, merchantID, rule)
}

func (f *RewardFacade) UpsertThreshold(ctx context.Context, merchantID int64, threshold model.SpendThreshold) (*model.RewardPolicy, error) {
	return f.policies.UpsertThreshold(ctx, merchantID, threshold)
}

func (f *RewardFacade) PolicySummary(ctx context.Context, merchantID int64) (*model.MerchantSummary, error) {
	return f.policies.Summary(ctx, merchantID)
}

func (f *RewardFacade) ExpiringSoon(ctx context.Context, merchantID int64, windowDays int) ([]model.ExpiringPoints, error) {
	return f.policies.ExpiringSoon(ctx, merchantID, windowDays)
}

func (f *RewardFacade) CreateCustomer(ctx context.Context, merchantID int64, name, email string) (*model.CustomerAccount, error) {
	return f.customers.Create(ctx, merchantID, name, email)
}

func (f *RewardFacade) Customers(ctx context.Context, merchantID int64) ([]model.CustomerAccount, error) {
	return f.customers.ListByMerchant(ctx, merchantID)
}

func (f *RewardFacade) RecordPurchase(ctx context.Context, req model.PurchaseRequest) (*model.PurchaseResult, error) {
	return f.purchases.Record(ctx, req)
}

func (f *RewardFacade) Spin(ctx context.Context, customerID, merchantID int64) (*model.SpinResult, error) {
	return f.purchases.Spin(ctx, customerID, merchantID)
}

func (f *RewardFacade) Balance(ctx context.Context, customerID int64) (*model.BalanceDetails, error) {
	return f.balances.Details(ctx, customerID)
}

func (f *RewardFacade) History(ctx context.Context, customerID int64) ([]model.Transaction, error) {
	return f.balances.History(ctx, customerID)
}

func (f *RewardFacade) CustomersForCompaction(ctx context.Context, limit int) ([]int64, error) {
	return f.maintenance.CustomersForCompaction(ctx, limit)
}

func (f *RewardFacade) CompactLedger(ctx context.Context, customerID int64) (int64, error) {
	return f.maintenance.CompactLedger(ctx, customerID)
}
