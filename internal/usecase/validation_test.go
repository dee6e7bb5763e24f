package usecase

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	domainErrors "github.com/loyaltyhub/rewardmart/internal/domain/errors"
	"github.com/loyaltyhub/rewardmart/internal/domain/model"
)

func validPolicy(merchantID int64) *model.RewardPolicy {
	return &model.RewardPolicy{
		MerchantID:        merchantID,
		PolicyName:        "standard",
		BaseUnit:          decimal.NewFromInt(100),
		BasePointsPerUnit: 10,
		RedemptionRate:    decimal.NewFromInt(1),
		MinRedeemPoints:   100,
		PointsExpiryDays:  365,
		CategoryRules: []model.CategoryRule{
			{Category: "grocery", Unit: decimal.NewFromInt(50), PointsPerUnit: 5, MinAmount: decimal.NewFromInt(100), BonusPoints: 10},
		},
		SpendThresholds: []model.SpendThreshold{
			{MinAmount: decimal.NewFromInt(500), BonusPoints: 50},
		},
		TierRules: []model.TierRule{
			{TierName: "Silver", MinPoints: 0, Multiplier: decimal.NewFromInt(1)},
			{TierName: "Gold", MinPoints: 500, Multiplier: decimal.NewFromFloat(1.5)},
		},
	}
}

func TestValidatePolicyAccepts(t *testing.T) {
	if err := ValidatePolicy(validPolicy(1)); err != nil {
		t.Fatalf("expected valid policy, got %v", err)
	}
}

func TestValidatePolicyRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*model.RewardPolicy)
	}{
		{"empty name", func(p *model.RewardPolicy) { p.PolicyName = "" }},
		{"zero base unit", func(p *model.RewardPolicy) { p.BaseUnit = decimal.Zero }},
		{"negative base points", func(p *model.RewardPolicy) { p.BasePointsPerUnit = -1 }},
		{"zero redemption rate", func(p *model.RewardPolicy) { p.RedemptionRate = decimal.Zero }},
		{"negative min redeem", func(p *model.RewardPolicy) { p.MinRedeemPoints = -1 }},
		{"zero expiry days", func(p *model.RewardPolicy) { p.PointsExpiryDays = 0 }},
		{"duplicate category", func(p *model.RewardPolicy) {
			p.CategoryRules = append(p.CategoryRules, p.CategoryRules[0])
		}},
		{"unnamed category", func(p *model.RewardPolicy) { p.CategoryRules[0].Category = "" }},
		{"zero category unit", func(p *model.RewardPolicy) { p.CategoryRules[0].Unit = decimal.Zero }},
		{"negative category bonus", func(p *model.RewardPolicy) { p.CategoryRules[0].BonusPoints = -5 }},
		{"negative category min amount", func(p *model.RewardPolicy) { p.CategoryRules[0].MinAmount = decimal.NewFromInt(-1) }},
		{"duplicate threshold", func(p *model.RewardPolicy) {
			p.SpendThresholds = append(p.SpendThresholds, p.SpendThresholds[0])
		}},
		{"negative threshold bonus", func(p *model.RewardPolicy) { p.SpendThresholds[0].BonusPoints = -1 }},
		{"duplicate tier", func(p *model.RewardPolicy) {
			p.TierRules = append(p.TierRules, p.TierRules[0])
		}},
		{"unnamed tier", func(p *model.RewardPolicy) { p.TierRules[0].TierName = "" }},
		{"negative tier min points", func(p *model.RewardPolicy) { p.TierRules[0].MinPoints = -1 }},
		{"zero tier multiplier", func(p *model.RewardPolicy) { p.TierRules[0].Multiplier = decimal.Zero }},
		{"negative spin minimum", func(p *model.RewardPolicy) { p.SpinMinPoints = -1 }},
		{"negative spin segment", func(p *model.RewardPolicy) { p.SpinSegments = []int64{10, -5} }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			policy := validPolicy(1)
			tc.mutate(policy)
			err := ValidatePolicy(policy)
			if !errors.Is(err, domainErrors.ErrInvalidPolicy) {
				t.Fatalf("expected invalid policy error, got %v", err)
			}
		})
	}
}
