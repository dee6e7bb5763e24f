package postgres

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/loyaltyhub/rewardmart/internal/config"
	"github.com/loyaltyhub/rewardmart/internal/domain/repository"
)

// Module wires PostgreSQL storage and repository adapters.
var Module = fx.Options(
	fx.Provide(newStorage),
	fx.Provide(
		func(s *Storage) repository.PolicyRepository { return s.Policies() },
		func(s *Storage) repository.CustomerRepository { return s.Customers() },
		func(s *Storage) repository.LedgerRepository { return s.Ledger() },
		func(s *Storage) repository.TransactionRepository { return s.Transactions() },
	),
	fx.Invoke(registerLifecycle),
)

type storageParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newStorage(p storageParams) (*Storage, error) {
	return New(p.Ctx, p.Config.DatabaseURI, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, storage *Storage) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			storage.Close()
			return nil
		},
	})
}
