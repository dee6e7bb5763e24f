package test

import (
	"context"
	"time"

	domainErrors "github.com/loyaltyhub/rewardmart/internal/domain/errors"
	"github.com/loyaltyhub/rewardmart/internal/domain/model"
	"github.com/loyaltyhub/rewardmart/internal/domain/repository"
)

// PolicyRepositoryStub stores policies in-memory for tests.
type PolicyRepositoryStub struct {
	Policies map[int64]*model.RewardPolicy
	Err      error

	UpsertCalls int
	DeleteCalls int
}

// NewPolicyRepositoryStub constructs stub repository with initialized map.
func NewPolicyRepositoryStub() *PolicyRepositoryStub {
	return &PolicyRepositoryStub{Policies: make(map[int64]*model.RewardPolicy)}
}

// Upsert stores the policy, reporting whether it was newly created.
func (s *PolicyRepositoryStub) Upsert(ctx context.Context, policy *model.RewardPolicy) (*model.RewardPolicy, bool, error) {
	s.UpsertCalls++
	if s.Err != nil {
		return nil, false, s.Err
	}
	if s.Policies == nil {
		s.Policies = make(map[int64]*model.RewardPolicy)
	}
	_, existed := s.Policies[policy.MerchantID]
	stored := *policy
	s.Policies[policy.MerchantID] = &stored
	return &stored, !existed, nil
}

// GetByMerchant fetches the stored policy or reports no policy.
func (s *PolicyRepositoryStub) GetByMerchant(ctx context.Context, merchantID int64) (*model.RewardPolicy, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if policy, ok := s.Policies[merchantID]; ok {
		copied := *policy
		return &copied, nil
	}
	return nil, domainErrors.ErrNoPolicy
}

// Delete removes the stored policy.
func (s *PolicyRepositoryStub) Delete(ctx context.Context, merchantID int64) error {
	s.DeleteCalls++
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.Policies[merchantID]; !ok {
		return domainErrors.ErrNoPolicy
	}
	delete(s.Policies, merchantID)
	return nil
}

// CustomerRepositoryStub stores customer accounts in-memory for tests.
type CustomerRepositoryStub struct {
	ByID map[int64]*model.CustomerAccount
	Next int64
	Err  error
}

// NewCustomerRepositoryStub constructs stub repository with initialized map.
func NewCustomerRepositoryStub() *CustomerRepositoryStub {
	return &CustomerRepositoryStub{ByID: make(map[int64]*model.CustomerAccount), Next: 1}
}

// Create registers a new account.
func (s *CustomerRepositoryStub) Create(ctx context.Context, merchantID int64, name, email string) (*model.CustomerAccount, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.CustomerAccount)
	}
	if s.Next == 0 {
		s.Next = 1
	}
	acct := &model.CustomerAccount{ID: s.Next, MerchantID: merchantID, Name: name, Email: email, CreatedAt: time.Now()}
	s.Next++
	s.ByID[acct.ID] = acct
	return acct, nil
}

// GetByID fetches an account or reports customer not found.
func (s *CustomerRepositoryStub) GetByID(ctx context.Context, id int64) (*model.CustomerAccount, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if acct, ok := s.ByID[id]; ok {
		return acct, nil
	}
	return nil, domainErrors.ErrCustomerNotFound
}

// ListByMerchant returns accounts belonging to the merchant.
func (s *CustomerRepositoryStub) ListByMerchant(ctx context.Context, merchantID int64) ([]model.CustomerAccount, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var result []model.CustomerAccount
	for _, acct := range s.ByID {
		if acct.MerchantID == merchantID {
			result = append(result, *acct)
		}
	}
	return result, nil
}

// LedgerRepositoryStub keeps accounts with lots in-memory and emulates the
// transactional Mutate contract: the mutation function runs on a copy and
// changes are kept only on success.
type LedgerRepositoryStub struct {
	Accounts     map[int64]*model.CustomerAccount
	Transactions []model.Transaction
	LoadErr      error
	MutateErr    error

	ExpiringFn   func(context.Context, int64, time.Duration) ([]model.ExpiringPoints, error)
	CompactionFn func(context.Context, int) ([]int64, error)
	CompactFn    func(context.Context, int64) (int64, error)
	Compacted    []int64
}

// NewLedgerRepositoryStub constructs stub repository with initialized map.
func NewLedgerRepositoryStub() *LedgerRepositoryStub {
	return &LedgerRepositoryStub{Accounts: make(map[int64]*model.CustomerAccount)}
}

// Seed stores an account for later mutation.
func (s *LedgerRepositoryStub) Seed(acct *model.CustomerAccount) {
	if s.Accounts == nil {
		s.Accounts = make(map[int64]*model.CustomerAccount)
	}
	s.Accounts[acct.ID] = acct
}

// LoadAccount returns a copy of the stored account.
func (s *LedgerRepositoryStub) LoadAccount(ctx context.Context, customerID int64) (*model.CustomerAccount, error) {
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	acct, ok := s.Accounts[customerID]
	if !ok {
		return nil, domainErrors.ErrCustomerNotFound
	}
	copied := copyAccount(acct)
	return copied, nil
}

// Mutate applies fn to a copy and commits it only when fn succeeds.
func (s *LedgerRepositoryStub) Mutate(ctx context.Context, customerID int64, fn repository.MutateFunc) (*model.Transaction, error) {
	if s.MutateErr != nil {
		return nil, s.MutateErr
	}
	acct, ok := s.Accounts[customerID]
	if !ok {
		return nil, domainErrors.ErrCustomerNotFound
	}

	work := copyAccount(acct)
	txn, err := fn(work)
	if err != nil {
		return nil, err
	}

	s.Accounts[customerID] = work
	if txn != nil {
		s.Transactions = append(s.Transactions, *txn)
	}
	return txn, nil
}

// ExpiringByMerchant delegates to configured function or returns nothing.
func (s *LedgerRepositoryStub) ExpiringByMerchant(ctx context.Context, merchantID int64, window time.Duration) ([]model.ExpiringPoints, error) {
	if s.ExpiringFn != nil {
		return s.ExpiringFn(ctx, merchantID, window)
	}
	return nil, nil
}

// CustomersForCompaction delegates to configured function or returns nothing.
func (s *LedgerRepositoryStub) CustomersForCompaction(ctx context.Context, limit int) ([]int64, error) {
	if s.CompactionFn != nil {
		return s.CompactionFn(ctx, limit)
	}
	return nil, nil
}

// Compact records the call and delegates to configured function.
func (s *LedgerRepositoryStub) Compact(ctx context.Context, customerID int64) (int64, error) {
	s.Compacted = append(s.Compacted, customerID)
	if s.CompactFn != nil {
		return s.CompactFn(ctx, customerID)
	}
	return 0, nil
}

func copyAccount(acct *model.CustomerAccount) *model.CustomerAccount {
	copied := *acct
	copied.Lots = make([]model.PointsLot, len(acct.Lots))
	copy(copied.Lots, acct.Lots)
	if acct.Tier != nil {
		tier := *acct.Tier
		copied.Tier = &tier
	}
	return &copied
}

// TransactionRepositoryStub serves canned transaction history.
type TransactionRepositoryStub struct {
	Items      []model.Transaction
	SummaryVal *model.MerchantSummary
	Err        error
}

// ListByCustomer returns configured transactions.
func (s *TransactionRepositoryStub) ListByCustomer(ctx context.Context, customerID int64) ([]model.Transaction, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Items, nil
}

// SummaryByMerchant returns the configured summary.
func (s *TransactionRepositoryStub) SummaryByMerchant(ctx context.Context, merchantID int64) (*model.MerchantSummary, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.SummaryVal != nil {
		return s.SummaryVal, nil
	}
	return &model.MerchantSummary{}, nil
}

// PolicyCacheStub records cache traffic for assertions.
type PolicyCacheStub struct {
	Policies    map[int64]*model.RewardPolicy
	GetCalls    int
	SetCalls    int
	Invalidated []int64
}

// NewPolicyCacheStub constructs stub cache with initialized map.
func NewPolicyCacheStub() *PolicyCacheStub {
	return &PolicyCacheStub{Policies: make(map[int64]*model.RewardPolicy)}
}

// Get returns the cached policy or nil on a miss.
func (s *PolicyCacheStub) Get(ctx context.Context, merchantID int64) (*model.RewardPolicy, error) {
	s.GetCalls++
	if s.Policies == nil {
		return nil, nil
	}
	return s.Policies[merchantID], nil
}

// Set stores the policy.
func (s *PolicyCacheStub) Set(ctx context.Context, merchantID int64, policy *model.RewardPolicy) error {
	s.SetCalls++
	if s.Policies == nil {
		s.Policies = make(map[int64]*model.RewardPolicy)
	}
	s.Policies[merchantID] = policy
	return nil
}

// Invalidate drops the entry and records the call.
func (s *PolicyCacheStub) Invalidate(ctx context.Context, merchantID int64) error {
	s.Invalidated = append(s.Invalidated, merchantID)
	delete(s.Policies, merchantID)
	return nil
}

// Close is a no-op.
func (s *PolicyCacheStub) Close() error { return nil }
