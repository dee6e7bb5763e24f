package repository

import (
	"context"

	"github.com/loyaltyhub/rewardmart/internal/domain/model"
)

// CustomerRepository describes persistence operations for customer accounts.
// Accounts returned here carry no lots; the ledger owns those.
type CustomerRepository interface {
	Create(ctx context.Context, merchantID int64, name, email string) (*model.CustomerAccount, error)
	GetByID(ctx context.Context, id int64) (*model.CustomerAccount, error)
	ListByMerchant(ctx context.Context, merchantID int64) ([]model.CustomerAccount, error)
}
