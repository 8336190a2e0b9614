package bootstrap

import (
	"conftix/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	RedisModule,
	JWTModule,
	PaymentModule,
	components.RepositoryModule,
	components.UseCaseModule,
	components.HandlerModule,
)
