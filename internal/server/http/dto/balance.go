package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/loyaltyhub/rewardmart/internal/domain/model"
)

// LotResponse represents one earning lot in a balance view.
type LotResponse struct {
	ID        int64     `json:"id"`
	Amount    int64     `json:"amount"`
	EarnedAt  time.Time `json:"earned_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Consumed  bool      `json:"consumed"`
}

// BalanceResponse represents a customer's current points position.
type BalanceResponse struct {
	Balance      int64         `json:"balance"`
	Tier         *string       `json:"tier"`
	ExpiringSoon int64         `json:"expiring_soon"`
	Lots         []LotResponse `json:"lots"`
}

// NewBalanceResponse maps balance details to their HTTP representation.
func NewBalanceResponse(d *model.BalanceDetails) BalanceResponse {
	lots := make([]LotResponse, 0, len(d.Lots))
	for _, lot := range d.Lots {
		lots = append(lots, LotResponse{
			ID:        lot.ID,
			Amount:    lot.Amount,
			EarnedAt:  lot.EarnedAt,
			ExpiresAt: lot.ExpiresAt,
			Consumed:  lot.Consumed,
		})
	}
	return BalanceResponse{Balance: d.Balance, Tier: d.Tier, ExpiringSoon: d.ExpiringSoon, Lots: lots}
}

// TransactionResponse is one row of a customer's purchase history.
type TransactionResponse struct {
	ID             string          `json:"id"`
	Amount         decimal.Decimal `json:"amount"`
	Category       string          `json:"category,omitempty"`
	EarnedPoints   int64           `json:"earned_points"`
	RedeemedPoints int64           `json:"redeemed_points"`
	RedeemedAmount decimal.Decimal `json:"redeemed_amount"`
	FinalAmount    decimal.Decimal `json:"final_amount"`
	FinalPoints    int64           `json:"final_points"`
	CreatedAt      time.Time       `json:"created_at"`
}

// NewTransactionResponse maps a transaction to its HTTP representation.
func NewTransactionResponse(t model.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:             t.ID.String(),
		Amount:         t.Amount,
		Category:       t.Category,
		EarnedPoints:   t.EarnedPoints,
		RedeemedPoints: t.RedeemedPoints,
		RedeemedAmount: t.RedeemedAmount,
		FinalAmount:    t.FinalAmount,
		FinalPoints:    t.FinalPoints,
		CreatedAt:      t.CreatedAt,
	}
}
