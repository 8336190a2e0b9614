package bootstrap

import (
	"context"

	"conftix/internal/infra/cartstore"
	"conftix/internal/pkg/config"
	"conftix/internal/usecase"

	"github.com/go-redis/redis/v8"
	"go.uber.org/fx"
)

var RedisModule = fx.Module("redis",
	fx.Provide(
		NewRedisClient,
		fx.Annotate(
			NewCartStore,
			fx.As(new(usecase.CartStore)),
		),
	),
)

func NewRedisClient(lc fx.Lifecycle, cfg config.Config) (*redis.Client, error) {
	client, cleanup, err := cartstore.NewClient(cfg.Redis)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	return client, nil
}

func NewCartStore(client *redis.Client, cfg config.Config) *cartstore.Store {
	return cartstore.NewStore(client, cfg.Redis)
}
