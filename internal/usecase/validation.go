package usecase

import (
	"fmt"

	domainErrors "github.com/loyaltyhub/rewardmart/internal/domain/errors"
	"github.com/loyaltyhub/rewardmart/internal/domain/model"
)

// ValidatePolicy rejects malformed policies at write time so the earning
// calculator never has to defend against them. Rule keys (category names,
// threshold amounts, tier names) must be unique.
func ValidatePolicy(p *model.RewardPolicy) error {
	if p.PolicyName == "" {
		return fmt.Errorf("%w: policy name is required", domainErrors.ErrInvalidPolicy)
	}
	if !p.BaseUnit.IsPositive() {
		return fmt.Errorf("%w: base unit must be positive", domainErrors.ErrInvalidPolicy)
	}
	if p.BasePointsPerUnit < 0 {
		return fmt.Errorf("%w: base points per unit must not be negative", domainErrors.ErrInvalidPolicy)
	}
	if !p.RedemptionRate.IsPositive() {
		return fmt.Errorf("%w: redemption rate must be positive", domainErrors.ErrInvalidPolicy)
	}
	if p.MinRedeemPoints < 0 {
		return fmt.Errorf("%w: min redeem points must not be negative", domainErrors.ErrInvalidPolicy)
	}
	if p.PointsExpiryDays <= 0 {
		return fmt.Errorf("%w: points expiry days must be positive", domainErrors.ErrInvalidPolicy)
	}

	categories := make(map[string]struct{}, len(p.CategoryRules))
	for _, rule := range p.CategoryRules {
		if rule.Category == "" {
			return fmt.Errorf("%w: category name is required", domainErrors.ErrInvalidPolicy)
		}
		if _, dup := categories[rule.Category]; dup {
			return fmt.Errorf("%w: duplicate category %q", domainErrors.ErrInvalidPolicy, rule.Category)
		}
		categories[rule.Category] = struct{}{}
		if !rule.Unit.IsPositive() {
			return fmt.Errorf("%w: category %q unit must be positive", domainErrors.ErrInvalidPolicy, rule.Category)
		}
		if rule.PointsPerUnit < 0 || rule.BonusPoints < 0 {
			return fmt.Errorf("%w: category %q points must not be negative", domainErrors.ErrInvalidPolicy, rule.Category)
		}
		if rule.MinAmount.IsNegative() {
			return fmt.Errorf("%w: category %q min amount must not be negative", domainErrors.ErrInvalidPolicy, rule.Category)
		}
	}

	thresholds := make(map[string]struct{}, len(p.SpendThresholds))
	for _, threshold := range p.SpendThresholds {
		if threshold.MinAmount.IsNegative() {
			return fmt.Errorf("%w: threshold min amount must not be negative", domainErrors.ErrInvalidPolicy)
		}
		key := threshold.MinAmount.String()
		if _, dup := thresholds[key]; dup {
			return fmt.Errorf("%w: duplicate threshold at %s", domainErrors.ErrInvalidPolicy, key)
		}
		thresholds[key] = struct{}{}
		if threshold.BonusPoints < 0 {
			return fmt.Errorf("%w: threshold bonus must not be negative", domainErrors.ErrInvalidPolicy)
		}
	}

	tiers := make(map[string]struct{}, len(p.TierRules))
	for _, rule := range p.TierRules {
		if rule.TierName == "" {
			return fmt.Errorf("%w: tier name is required", domainErrors.ErrInvalidPolicy)
		}
		if _, dup := tiers[rule.TierName]; dup {
			return fmt.Errorf("%w: duplicate tier %q", domainErrors.ErrInvalidPolicy, rule.TierName)
		}
		tiers[rule.TierName] = struct{}{}
		if rule.MinPoints < 0 {
			return fmt.Errorf("%w: tier %q min points must not be negative", domainErrors.ErrInvalidPolicy, rule.TierName)
		}
		if !rule.Multiplier.IsPositive() {
			return fmt.Errorf("%w: tier %q multiplier must be positive", domainErrors.ErrInvalidPolicy, rule.TierName)
		}
	}

	if p.SpinMinPoints < 0 {
		return fmt.Errorf("%w: spin minimum must not be negative", domainErrors.ErrInvalidPolicy)
	}
	for _, segment := range p.SpinSegments {
		if segment < 0 {
			return fmt.Errorf("%w: spin segments must not be negative", domainErrors.ErrInvalidPolicy)
		}
	}

	return nil
}
