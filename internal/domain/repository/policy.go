package repository

import (
	"context"

	"github.com/loyaltyhub/rewardmart/internal/domain/model"
)

// PolicyRepository persists merchant reward policies. A merchant has at most
// one policy, so writes follow create-or-replace semantics.
type PolicyRepository interface {
	Upsert(ctx context.Context, policy *model.RewardPolicy) (*model.RewardPolicy, bool, error)
	GetByMerchant(ctx context.Context, merchantID int64) (*model.RewardPolicy, error)
	Delete(ctx context.Context, merchantID int64) error
}
