package usecase

import (
	"context"

	"github.com/loyaltyhub/rewardmart/internal/domain/repository"
)

// MaintenanceUseCase exposes the ledger garbage collection used by the
// background compactor. Expiry itself stays lazy; compaction only prunes
// lots that no longer contribute to any balance, so running it any number
// of times changes nothing a customer can observe.
type MaintenanceUseCase struct {
	ledger repository.LedgerRepository
}

// NewMaintenanceUseCase constructs MaintenanceUseCase.
func NewMaintenanceUseCase(ledger repository.LedgerRepository) *MaintenanceUseCase {
	return &MaintenanceUseCase{ledger: ledger}
}

// CustomersForCompaction returns customers holding consumed or expired lots.
func (u *MaintenanceUseCase) CustomersForCompaction(ctx context.Context, limit int) ([]int64, error) {
	return u.ledger.CustomersForCompaction(ctx, limit)
}

// CompactLedger prunes consumed and expired lots for one customer and
// returns how many lots were removed.
func (u *MaintenanceUseCase) CompactLedger(ctx context.Context, customerID int64) (int64, error) {
	return u.ledger.Compact(ctx, customerID)
}
