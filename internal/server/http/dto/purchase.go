package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/loyaltyhub/rewardmart/internal/domain/model"
)

// PurchaseRequest records one purchase event, optionally redeeming points
// against the amount due.
type PurchaseRequest struct {
	CustomerID   int64           `json:"customer_id" binding:"required"`
	MerchantID   int64           `json:"merchant_id" binding:"required"`
	Amount       decimal.Decimal `json:"amount"`
	Category     string          `json:"category"`
	RedeemPoints int64           `json:"redeem_points"`
}

// PointsBreakdownResponse details how the earned total was computed.
type PointsBreakdownResponse struct {
	BasePoints     int64           `json:"base_points"`
	CategoryPoints int64           `json:"category_points"`
	ThresholdBonus int64           `json:"threshold_bonus"`
	TierMultiplier decimal.Decimal `json:"tier_multiplier"`
	TotalEarned    int64           `json:"total_earned"`
}

// PaymentBreakdownResponse details how redemption changed the amount due.
type PaymentBreakdownResponse struct {
	OriginalAmount decimal.Decimal `json:"original_amount"`
	RedeemedAmount decimal.Decimal `json:"redeemed_amount"`
	FinalAmount    decimal.Decimal `json:"final_amount"`
}

// PurchaseResponse is the full outcome of a recorded purchase.
type PurchaseResponse struct {
	TransactionID string                   `json:"transaction_id"`
	Points        PointsBreakdownResponse  `json:"points"`
	Payment       PaymentBreakdownResponse `json:"payment"`
	Balance       int64                    `json:"balance"`
	Tier          *string                  `json:"tier"`
	CreatedAt     time.Time                `json:"created_at"`
}

// NewPurchaseResponse maps a purchase result to its HTTP representation.
func NewPurchaseResponse(r *model.PurchaseResult) PurchaseResponse {
	return PurchaseResponse{
		TransactionID: r.Transaction.ID.String(),
		Points: PointsBreakdownResponse{
			BasePoints:     r.PointsBreakdown.BasePoints,
			CategoryPoints: r.PointsBreakdown.CategoryPoints,
			ThresholdBonus: r.PointsBreakdown.ThresholdBonus,
			TierMultiplier: r.PointsBreakdown.TierMultiplier,
			TotalEarned:    r.PointsBreakdown.TotalEarned,
		},
		Payment: PaymentBreakdownResponse{
			OriginalAmount: r.PaymentBreakdown.OriginalAmount,
			RedeemedAmount: r.PaymentBreakdown.RedeemedAmount,
			FinalAmount:    r.PaymentBreakdown.FinalAmount,
		},
		Balance:   r.CurrentBalance,
		Tier:      r.CurrentTier,
		CreatedAt: r.Transaction.CreatedAt,
	}
}

// SpinRequest identifies the merchant whose wheel the customer spins.
type SpinRequest struct {
	MerchantID int64 `json:"merchant_id" binding:"required"`
}

// SpinResponse is the outcome of a spin wheel draw.
type SpinResponse struct {
	WonPoints int64   `json:"won_points"`
	Balance   int64   `json:"balance"`
	Tier      *string `json:"tier"`
}
