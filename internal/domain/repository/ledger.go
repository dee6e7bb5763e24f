package repository

import (
	"context"
	"time"

	"github.com/loyaltyhub/rewardmart/internal/domain/model"
)

// MutateFunc mutates a customer account in place and optionally returns a
// transaction record to persist alongside the mutated ledger. Returning an
// error discards every change, including lots appended by the mutation.
type MutateFunc func(acct *model.CustomerAccount) (*model.Transaction, error)

// LedgerRepository owns the per-customer lot sequences. Mutate serializes
// writers per customer: the account row stays locked while fn runs, and the
// lots, cached balance, tier and transaction record commit atomically.
// Readers observe either the pre- or post-mutation state, never a partially
// written lot list.
type LedgerRepository interface {
	LoadAccount(ctx context.Context, customerID int64) (*model.CustomerAccount, error)
	Mutate(ctx context.Context, customerID int64, fn MutateFunc) (*model.Transaction, error)
	ExpiringByMerchant(ctx context.Context, merchantID int64, window time.Duration) ([]model.ExpiringPoints, error)
	CustomersForCompaction(ctx context.Context, limit int) ([]int64, error)
	Compact(ctx context.Context, customerID int64) (int64, error)
}
