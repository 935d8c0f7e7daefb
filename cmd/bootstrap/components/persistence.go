package components

import (
	"digistore/internal/infra/cache"
	"digistore/internal/infra/db"
	"digistore/internal/infra/readstore"
	"digistore/internal/infra/uow"
	"digistore/internal/pkg/config"
	"digistore/internal/usecase/commands"
	"digistore/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewDBTX,
		// UnitOfWork
		uow.NewPostgresUoW,
		// Query-side read stores run outside transactions, over the pool.
		fx.Annotate(
			readstore.NewPurchaseReadStore,
			fx.As(new(queries.PurchaseViewRepo)),
			fx.As(new(queries.LicenseOwnershipRepo)),
		),
		fx.Annotate(
			readstore.NewActivationReadStore,
			fx.As(new(queries.ActivationViewRepo)),
		),
		fx.Annotate(
			readstore.NewPayoutReadStore,
			fx.As(new(queries.PayoutViewRepo)),
		),
		// License validation cache
		fx.Annotate(
			NewLicenseValidationCache,
			fx.As(new(commands.ValidationCache)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}

func NewLicenseValidationCache(client *redis.Client, cfg config.Config) *cache.LicenseValidationCache {
	return cache.NewLicenseValidationCache(client, cfg.Redis.LicenseCacheTTL)
}
