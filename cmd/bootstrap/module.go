package bootstrap

import (
	"digistore/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	RedisModule,
	JWTModule,
	GatewayModule,
	components.PersistenceModule,
	components.UseCaseModule,
	components.HandlerModule,
)
