package handlers

import (
	"context"

	"github.com/loyaltyhub/rewardmart/internal/domain/model"
)

// PolicyFacade describes policy management capabilities required by handlers.
type PolicyFacade interface {
	UpsertPolicy(ctx context.Context, policy *model.RewardPolicy) (*model.RewardPolicy, bool, error)
	Policy(ctx context.Context, merchantID int64) (*model.RewardPolicy, error)
	DeletePolicy(ctx context.Context, merchantID int64) error
	UpsertCategoryRule(ctx context.Context, merchantID int64, rule model.CategoryRule) (*model.RewardPolicy, error)
	UpsertThreshold(ctx context.Context, merchantID int64, threshold model.SpendThreshold) (*model.RewardPolicy, error)
	PolicySummary(ctx context.Context, merchantID int64) (*model.MerchantSummary, error)
	ExpiringSoon(ctx context.Context, merchantID int64, windowDays int) ([]model.ExpiringPoints, error)
}

// CustomerFacade encapsulates customer account operations exposed via HTTP.
type CustomerFacade interface {
	CreateCustomer(ctx context.Context, merchantID int64, name, email string) (*model.CustomerAccount, error)
	Customers(ctx context.Context, merchantID int64) ([]model.CustomerAccount, error)
}

// PurchaseFacade encapsulates the transaction engine operations.
type PurchaseFacade interface {
	RecordPurchase(ctx context.Context, req model.PurchaseRequest) (*model.PurchaseResult, error)
	Spin(ctx context.Context, customerID, merchantID int64) (*model.SpinResult, error)
}

// BalanceFacade provides read access to customer ledgers.
type BalanceFacade interface {
	Balance(ctx context.Context, customerID int64) (*model.BalanceDetails, error)
	History(ctx context.Context, customerID int64) ([]model.Transaction, error)
}

// RewardFacade aggregates the full set of operations used across handlers.
type RewardFacade interface {
	PolicyFacade
	CustomerFacade
	PurchaseFacade
	BalanceFacade
}
