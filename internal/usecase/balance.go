package usecase

import (
	"context"
	"time"

	"github.com/loyaltyhub/rewardmart/internal/domain/model"
	"github.com/loyaltyhub/rewardmart/internal/domain/repository"
	"github.com/loyaltyhub/rewardmart/internal/engine"
)

// BalanceUseCase serves read-side views of a customer's ledger.
type BalanceUseCase struct {
	ledger       repository.LedgerRepository
	transactions repository.TransactionRepository

	now func() time.Time
}

// NewBalanceUseCase constructs BalanceUseCase.
func NewBalanceUseCase(l repository.LedgerRepository, t repository.TransactionRepository) *BalanceUseCase {
	return &BalanceUseCase{ledger: l, transactions: t, now: time.Now}
}

// expiryWarningWindow bounds the ExpiringSoon figure on balance reads.
const expiryWarningWindow = 30 * 24 * time.Hour

// Details returns the customer's lots with the balance recomputed at read
// time, so lots that expired since the last mutation are already excluded.
func (u *BalanceUseCase) Details(ctx context.Context, customerID int64) (*model.BalanceDetails, error) {
	acct, err := u.ledger.LoadAccount(ctx, customerID)
	if err != nil {
		return nil, err
	}

	now := u.now()
	return &model.BalanceDetails{
		Balance:      engine.ValidBalance(acct.Lots, now),
		Tier:         acct.Tier,
		ExpiringSoon: engine.ExpiringWithin(acct.Lots, now, expiryWarningWindow),
		Lots:         acct.Lots,
	}, nil
}

// History returns the customer's transactions, newest first.
func (u *BalanceUseCase) History(ctx context.Context, customerID int64) ([]model.Transaction, error) {
	if _, err := u.ledger.LoadAccount(ctx, customerID); err != nil {
		return nil, err
	}
	return u.transactions.ListByCustomer(ctx, customerID)
}
