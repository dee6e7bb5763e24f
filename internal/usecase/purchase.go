package usecase

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/loyaltyhub/rewardmart/internal/domain/errors"
	"github.com/loyaltyhub/rewardmart/internal/domain/model"
	"github.com/loyaltyhub/rewardmart/internal/domain/repository"
	"github.com/loyaltyhub/rewardmart/internal/engine"
)

// PurchaseUseCase orchestrates a purchase event: earn, redeem, rebalance,
// re-tier and persist, all within one per-customer ledger mutation.
type PurchaseUseCase struct {
	policies *PolicyUseCase
	ledger   repository.LedgerRepository

	now  func() time.Time
	pick func(n int) int
}

// NewPurchaseUseCase constructs PurchaseUseCase.
func NewPurchaseUseCase(policies *PolicyUseCase, ledger repository.LedgerRepository) *PurchaseUseCase {
	return &PurchaseUseCase{
		policies: policies,
		ledger:   ledger,
		now:      time.Now,
		pick:     rand.Intn,
	}
}

// Record processes one purchase. The newly earned lot joins the ledger
// before redemption runs, so it is immediately redeemable within the same
// transaction. Any failure, including an unsatisfiable redemption, discards
// every change: either the whole event persists or none of it does.
func (u *PurchaseUseCase) Record(ctx context.Context, req model.PurchaseRequest) (*model.PurchaseResult, error) {
	if !req.Amount.IsPositive() || req.RedeemPoints < 0 {
		return nil, domainErrors.ErrInvalidAmount
	}

	policy, err := u.policies.Get(ctx, req.MerchantID)
	if err != nil {
		return nil, err
	}

	var result model.PurchaseResult
	_, err = u.ledger.Mutate(ctx, req.CustomerID, func(acct *model.CustomerAccount) (*model.Transaction, error) {
		now := u.now()

		breakdown := engine.CalculateEarning(policy, req.Amount, req.Category, acct.Tier)
		if breakdown.TotalEarned > 0 {
			acct.Lots = append(acct.Lots, model.PointsLot{
				CustomerID: acct.ID,
				Amount:     breakdown.TotalEarned,
				EarnedAt:   now,
				ExpiresAt:  now.Add(policy.ExpiryPeriod()),
			})
		}

		alloc, err := engine.AllocateRedemption(acct.Lots, req.RedeemPoints, req.Amount, policy.RedemptionRate, now)
		if err != nil {
			return nil, err
		}

		acct.PointsBalance = engine.ValidBalance(acct.Lots, now)
		acct.Tier = engine.ResolveTier(acct.PointsBalance, policy.TierRules)

		txn := &model.Transaction{
			ID:             uuid.New(),
			CustomerID:     acct.ID,
			MerchantID:     req.MerchantID,
			Amount:         req.Amount,
			Category:       req.Category,
			EarnedPoints:   breakdown.TotalEarned,
			RedeemedPoints: alloc.RedeemedPoints,
			RedeemedAmount: alloc.RedeemedAmount,
			FinalAmount:    alloc.FinalAmount,
			FinalPoints:    acct.PointsBalance,
			CreatedAt:      now,
		}

		result = model.PurchaseResult{
			Transaction:     *txn,
			PointsBreakdown: breakdown,
			PaymentBreakdown: model.PaymentBreakdown{
				OriginalAmount: req.Amount,
				RedeemedAmount: alloc.RedeemedAmount,
				FinalAmount:    alloc.FinalAmount,
			},
			CurrentBalance: acct.PointsBalance,
			CurrentTier:    acct.Tier,
		}
		return txn, nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Spin awards points from a random spin wheel segment. The award is gated
// on the configured minimum balance and recorded as a regular expiring lot;
// no transaction record is written.
func (u *PurchaseUseCase) Spin(ctx context.Context, customerID, merchantID int64) (*model.SpinResult, error) {
	policy, err := u.policies.Get(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	if len(policy.SpinSegments) == 0 {
		return nil, domainErrors.ErrSpinNotConfigured
	}

	var result model.SpinResult
	_, err = u.ledger.Mutate(ctx, customerID, func(acct *model.CustomerAccount) (*model.Transaction, error) {
		now := u.now()

		if engine.ValidBalance(acct.Lots, now) < policy.SpinMinPoints {
			return nil, domainErrors.ErrInsufficientPoints
		}

		won := policy.SpinSegments[u.pick(len(policy.SpinSegments))]
		if won > 0 {
			acct.Lots = append(acct.Lots, model.PointsLot{
				CustomerID: acct.ID,
				Amount:     won,
				EarnedAt:   now,
				ExpiresAt:  now.Add(policy.ExpiryPeriod()),
			})
		}

		acct.PointsBalance = engine.ValidBalance(acct.Lots, now)
		acct.Tier = engine.ResolveTier(acct.PointsBalance, policy.TierRules)

		result = model.SpinResult{WonPoints: won, Balance: acct.PointsBalance, Tier: acct.Tier}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}
