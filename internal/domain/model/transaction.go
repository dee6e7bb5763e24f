package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is the immutable record of one purchase event: what was spent,
// what was earned, what was redeemed and the resulting balance. It is
// created once and never mutated.
type Transaction struct {
	ID             uuid.UUID
	CustomerID     int64
	MerchantID     int64
	Amount         decimal.Decimal
	Category       string
	EarnedPoints   int64
	RedeemedPoints int64
	RedeemedAmount decimal.Decimal
	FinalAmount    decimal.Decimal
	FinalPoints    int64
	CreatedAt      time.Time
}

// PurchaseRequest carries one purchase event into the engine.
type PurchaseRequest struct {
	CustomerID   int64
	MerchantID   int64
	Amount       decimal.Decimal
	Category     string
	RedeemPoints int64
}

// PointsBreakdown explains how the earned points of a purchase were
// computed, for auditability.
type PointsBreakdown struct {
	BasePoints     int64
	CategoryPoints int64
	ThresholdBonus int64
	TierMultiplier decimal.Decimal
	TotalEarned    int64
}

// PaymentBreakdown explains how redemption changed the amount due.
type PaymentBreakdown struct {
	OriginalAmount decimal.Decimal
	RedeemedAmount decimal.Decimal
	FinalAmount    decimal.Decimal
}

// PurchaseResult is everything the caller learns from recording a purchase.
type PurchaseResult struct {
	Transaction      Transaction
	PointsBreakdown  PointsBreakdown
	PaymentBreakdown PaymentBreakdown
	CurrentBalance   int64
	CurrentTier      *string
}

// SpinResult reports the outcome of a spin wheel award.
type SpinResult struct {
	WonPoints int64
	Balance   int64
	Tier      *string
}

// MerchantSummary aggregates transaction totals across a merchant's
// customers.
type MerchantSummary struct {
	TotalTransactions   int64
	TotalPointsIssued   int64
	TotalPointsRedeemed int64
	OutstandingPoints   int64
}
