package di

import (
	"go.uber.org/fx"

	"github.com/loyaltyhub/rewardmart/internal/app"
	"github.com/loyaltyhub/rewardmart/internal/cache"
	"github.com/loyaltyhub/rewardmart/internal/config"
	"github.com/loyaltyhub/rewardmart/internal/logger"
	"github.com/loyaltyhub/rewardmart/internal/server/http/router"
	"github.com/loyaltyhub/rewardmart/internal/storage/postgres"
	"github.com/loyaltyhub/rewardmart/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		cache.Module,
		postgres.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
