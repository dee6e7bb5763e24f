package dto

import (
	"time"

	"github.com/loyaltyhub/rewardmart/internal/domain/model"
)

// CreateCustomerRequest registers a customer under a merchant.
type CreateCustomerRequest struct {
	MerchantID int64  `json:"merchant_id" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required"`
}

// CustomerResponse represents a customer account.
type CustomerResponse struct {
	ID            int64     `json:"id"`
	MerchantID    int64     `json:"merchant_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Tier          *string   `json:"tier"`
	PointsBalance int64     `json:"points_balance"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewCustomerResponse maps an account to its HTTP representation.
func NewCustomerResponse(acct *model.CustomerAccount) CustomerResponse {
	return CustomerResponse{
		ID:            acct.ID,
		MerchantID:    acct.MerchantID,
		Name:          acct.Name,
		Email:         acct.Email,
		Tier:          acct.Tier,
		PointsBalance: acct.PointsBalance,
		CreatedAt:     acct.CreatedAt,
	}
}
