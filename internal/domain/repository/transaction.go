package repository

import (
	"context"

	"github.com/loyaltyhub/rewardmart/internal/domain/model"
)

// TransactionRepository provides read access to immutable purchase records.
type TransactionRepository interface {
	ListByCustomer(ctx context.Context, customerID int64) ([]model.Transaction, error)
	SummaryByMerchant(ctx context.Context, merchantID int64) (*model.MerchantSummary, error)
}
