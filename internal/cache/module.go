package cache

import (
	"context"

	"go.uber.org/fx"
)

// Module wires the policy cache for dependency injection.
var Module = fx.Options(
	fx.Provide(New),
	fx.Invoke(registerLifecycle),
)

func registerLifecycle(lc fx.Lifecycle, c PolicyCache) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return c.Close()
		},
	})
}
