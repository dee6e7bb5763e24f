package usecase

import (
	"context"
	"strings"

	domainErrors "github.com/loyaltyhub/rewardmart/internal/domain/errors"
	"github.com/loyaltyhub/rewardmart/internal/domain/model"
	"github.com/loyaltyhub/rewardmart/internal/domain/repository"
)

// CustomerUseCase is thin plumbing around customer accounts. Registration
// and authentication live outside this service; accounts created here start
// with an empty ledger and no tier.
type CustomerUseCase struct {
	customers repository.CustomerRepository
}

// NewCustomerUseCase constructs CustomerUseCase.
func NewCustomerUseCase(customers repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{customers: customers}
}

// Create registers a customer account for a merchant.
func (u *CustomerUseCase) Create(ctx context.Context, merchantID int64, name, email string) (*model.CustomerAccount, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if merchantID <= 0 || name == "" || email == "" {
		return nil, domainErrors.ErrInvalidCustomer
	}
	return u.customers.Create(ctx, merchantID, name, email)
}

// ListByMerchant returns all customer accounts of a merchant.
func (u *CustomerUseCase) ListByMerchant(ctx context.Context, merchantID int64) ([]model.CustomerAccount, error) {
	return u.customers.ListByMerchant(ctx, merchantID)
}
