// Package engine holds the pure points arithmetic: earning computation,
// FIFO redemption allocation, tier resolution and balance recomputation.
// Functions here touch no storage and assume an already validated policy.
package engine

import (
	"github.com/shopspring/decimal"

	"github.com/loyaltyhub/rewardmart/internal/domain/model"
)

// CalculateEarning computes the points earned by a purchase under the given
// policy and the customer's current tier. Base and category points are
// additive. The tier multiplier scales base and category points only;
// threshold bonuses are flat and stack across every threshold the amount
// reaches.
func CalculateEarning(policy *model.RewardPolicy, amount decimal.Decimal, category string, tier *string) model.PointsBreakdown {
	multiplier := decimal.NewFromInt(1)
	if tier != nil {
		if rule, ok := policy.TierRuleFor(*tier); ok {
			multiplier = rule.Multiplier
		}
	}

	basePoints := unitPoints(amount, policy.BaseUnit, policy.BasePointsPerUnit)

	var categoryPoints int64
	if category != "" {
		if rule, ok := policy.CategoryRuleFor(category); ok && amount.GreaterThanOrEqual(rule.MinAmount) {
			categoryPoints = unitPoints(amount, rule.Unit, rule.PointsPerUnit) + rule.BonusPoints
		}
	}

	var thresholdBonus int64
	for _, threshold := range policy.SpendThresholds {
		if amount.GreaterThanOrEqual(threshold.MinAmount) {
			thresholdBonus += threshold.BonusPoints
		}
	}

	total := decimal.NewFromInt(basePoints + categoryPoints).
		Mul(multiplier).
		Add(decimal.NewFromInt(thresholdBonus)).
		Floor().
		IntPart()

	return model.PointsBreakdown{
		BasePoints:     basePoints,
		CategoryPoints: categoryPoints,
		ThresholdBonus: thresholdBonus,
		TierMultiplier: multiplier,
		TotalEarned:    total,
	}
}

// unitPoints computes floor(amount / unit * pointsPerUnit).
func unitPoints(amount, unit decimal.Decimal, pointsPerUnit int64) int64 {
	if unit.IsZero() {
		return 0
	}
	return amount.Div(unit).Mul(decimal.NewFromInt(pointsPerUnit)).Floor().IntPart()
}
