package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryRule grants extra points for purchases in a specific category once
// the purchase amount reaches MinAmount. Category points supplement the base
// rate, they do not replace it.
type CategoryRule struct {
	Category      string          `json:"category"`
	Unit          decimal.Decimal `json:"unit"`
	PointsPerUnit int64           `json:"points_per_unit"`
	MinAmount     decimal.Decimal `json:"min_amount"`
	BonusPoints   int64           `json:"bonus_points"`
}

// SpendThreshold grants flat bonus points when the purchase amount reaches
// MinAmount. Every threshold met by a purchase applies; they stack.
type SpendThreshold struct {
	MinAmount   decimal.Decimal `json:"min_amount"`
	BonusPoints int64           `json:"bonus_points"`
}

// TierRule assigns a named loyalty tier once the points balance reaches
// MinPoints. The multiplier scales base and category points for members of
// the tier.
type TierRule struct {
	TierName   string          `json:"tier_name"`
	MinPoints  int64           `json:"min_points"`
	Multiplier decimal.Decimal `json:"multiplier"`
	Benefits   string          `json:"benefits,omitempty"`
}

// RewardPolicy describes how a merchant's customers earn and redeem points.
// A merchant has at most one policy at a time.
type RewardPolicy struct {
	MerchantID        int64
	PolicyName        string
	Description       string
	BaseUnit          decimal.Decimal
	BasePointsPerUnit int64
	CategoryRules     []CategoryRule
	SpendThresholds   []SpendThreshold
	TierRules         []TierRule
	RedemptionRate    decimal.Decimal
	MinRedeemPoints   int64
	PointsExpiryDays  int
	SpinMinPoints     int64
	SpinSegments      []int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CategoryRuleFor returns the rule matching category. Category names are
// unique, enforced at policy write time.
func (p *RewardPolicy) CategoryRuleFor(category string) (CategoryRule, bool) {
	for _, r := range p.CategoryRules {
		if r.Category == category {
			return r, true
		}
	}
	return CategoryRule{}, false
}

// TierRuleFor returns the rule matching tierName.
func (p *RewardPolicy) TierRuleFor(tierName string) (TierRule, bool) {
	for _, r := range p.TierRules {
		if r.TierName == tierName {
			return r, true
		}
	}
	return TierRule{}, false
}

// ExpiryPeriod converts PointsExpiryDays to a duration.
func (p *RewardPolicy) ExpiryPeriod() time.Duration {
	return time.Duration(p.PointsExpiryDays) * 24 * time.Hour
}
