package engine

import (
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/loyaltyhub/rewardmart/internal/domain/errors"
	"github.com/loyaltyhub/rewardmart/internal/domain/model"
)

// Allocation is the outcome of a redemption request.
type Allocation struct {
	RedeemedPoints int64
	RedeemedAmount decimal.Decimal
	FinalAmount    decimal.Decimal
}

// AllocateRedemption consumes lots to satisfy a redemption request and
// reports what was redeemed. Lots are drained oldest first, skipping
// consumed and expired ones, so the points closest to expiry are spent
// before they are forfeited.
//
// The redeemed points are capped at floor(amount/rate): a customer never
// redeems more than the purchase can absorb. If the capped request exceeds
// the valid balance the whole allocation fails with ErrInsufficientPoints
// and no lot is mutated.
func AllocateRedemption(lots []model.PointsLot, requested int64, amount, rate decimal.Decimal, now time.Time) (Allocation, error) {
	if requested <= 0 {
		return Allocation{RedeemedAmount: decimal.Zero, FinalAmount: amount}, nil
	}

	target := requested
	if !rate.IsZero() {
		if purchaseCap := amount.Div(rate).Floor().IntPart(); purchaseCap < target {
			target = purchaseCap
		}
	}

	if target > ValidBalance(lots, now) {
		return Allocation{}, domainErrors.ErrInsufficientPoints
	}

	remaining := target
	for i := range lots {
		if remaining == 0 {
			break
		}
		if !lots[i].ValidAt(now) {
			continue
		}
		if lots[i].Amount <= remaining {
			remaining -= lots[i].Amount
			lots[i].Amount = 0
			lots[i].Consumed = true
		} else {
			lots[i].Amount -= remaining
			remaining = 0
		}
	}

	redeemedAmount := decimal.NewFromInt(target).Mul(rate)
	finalAmount := amount.Sub(redeemedAmount)
	if finalAmount.IsNegative() {
		finalAmount = decimal.Zero
	}

	return Allocation{
		RedeemedPoints: target,
		RedeemedAmount: redeemedAmount,
		FinalAmount:    finalAmount,
	}, nil
}
