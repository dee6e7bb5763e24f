package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/loyaltyhub/rewardmart/internal/domain/model"
)

// PolicyRequest is the payload for creating or replacing a reward policy.
type PolicyRequest struct {
	PolicyName        string                 `json:"policy_name" binding:"required"`
	Description       string                 `json:"description"`
	BaseUnit          decimal.Decimal        `json:"base_unit"`
	BasePointsPerUnit int64                  `json:"base_points_per_unit"`
	CategoryRules     []model.CategoryRule   `json:"category_rules"`
	SpendThresholds   []model.SpendThreshold `json:"spend_thresholds"`
	TierRules         []model.TierRule       `json:"tier_rules"`
	RedemptionRate    decimal.Decimal        `json:"redemption_rate"`
	MinRedeemPoints   int64                  `json:"min_redeem_points"`
	PointsExpiryDays  int                    `json:"points_expiry_days"`
	SpinMinPoints     int64                  `json:"spin_min_points"`
	SpinSegments      []int64                `json:"spin_segments"`
}

// ToModel binds the request to a merchant.
func (r PolicyRequest) ToModel(merchantID int64) *model.RewardPolicy {
	return &model.RewardPolicy{
		MerchantID:        merchantID,
		PolicyName:        r.PolicyName,
		Description:       r.Description,
		BaseUnit:          r.BaseUnit,
		BasePointsPerUnit: r.BasePointsPerUnit,
		CategoryRules:     r.CategoryRules,
		SpendThresholds:   r.SpendThresholds,
		TierRules:         r.TierRules,
		RedemptionRate:    r.RedemptionRate,
		MinRedeemPoints:   r.MinRedeemPoints,
		PointsExpiryDays:  r.PointsExpiryDays,
		SpinMinPoints:     r.SpinMinPoints,
		SpinSegments:      r.SpinSegments,
	}
}

// PolicyResponse represents a stored reward policy.
type PolicyResponse struct {
	MerchantID        int64                  `json:"merchant_id"`
	PolicyName        string                 `json:"policy_name"`
	Description       string                 `json:"description,omitempty"`
	BaseUnit          decimal.Decimal        `json:"base_unit"`
	BasePointsPerUnit int64                  `json:"base_points_per_unit"`
	CategoryRules     []model.CategoryRule   `json:"category_rules"`
	SpendThresholds   []model.SpendThreshold `json:"spend_thresholds"`
	TierRules         []model.TierRule       `json:"tier_rules"`
	RedemptionRate    decimal.Decimal        `json:"redemption_rate"`
	MinRedeemPoints   int64                  `json:"min_redeem_points"`
	PointsExpiryDays  int                    `json:"points_expiry_days"`
	SpinMinPoints     int64                  `json:"spin_min_points"`
	SpinSegments      []int64                `json:"spin_segments,omitempty"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
}

// NewPolicyResponse maps a policy to its HTTP representation.
func NewPolicyResponse(p *model.RewardPolicy) PolicyResponse {
	return PolicyResponse{
		MerchantID:        p.MerchantID,
		PolicyName:        p.PolicyName,
		Description:       p.Description,
		BaseUnit:          p.BaseUnit,
		BasePointsPerUnit: p.BasePointsPerUnit,
		CategoryRules:     p.CategoryRules,
		SpendThresholds:   p.SpendThresholds,
		TierRules:         p.TierRules,
		RedemptionRate:    p.RedemptionRate,
		MinRedeemPoints:   p.MinRedeemPoints,
		PointsExpiryDays:  p.PointsExpiryDays,
		SpinMinPoints:     p.SpinMinPoints,
		SpinSegments:      p.SpinSegments,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// SummaryResponse aggregates merchant-wide points totals.
type SummaryResponse struct {
	TotalTransactions   int64 `json:"total_transactions"`
	TotalPointsIssued   int64 `json:"total_points_issued"`
	TotalPointsRedeemed int64 `json:"total_points_redeemed"`
	OutstandingPoints   int64 `json:"outstanding_points"`
}

// ExpiringPointsResponse is one row of the expiring points report.
type ExpiringPointsResponse struct {
	CustomerID     int64  `json:"customer_id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	ExpiringPoints int64  `json:"expiring_points"`
}
