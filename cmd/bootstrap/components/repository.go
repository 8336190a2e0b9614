package components

import (
	repo_impl "conftix/internal/infra/repository"
	"conftix/internal/usecase/commands"
	"conftix/internal/usecase/queries"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			repo_impl.NewProductRepository,
			fx.As(new(commands.ProductRepository)),
		),
		fx.Annotate(
			repo_impl.NewCouponRepository,
			fx.As(new(commands.CouponRepository)),
			fx.As(new(queries.CouponReadStore)),
		),
		fx.Annotate(
			repo_impl.NewPurchaseRepository,
			fx.As(new(commands.PurchaseRepository)),
			fx.As(new(queries.EntitlementReadStore)),
			fx.As(new(queries.PurchaseReadStore)),
		),
		fx.Annotate(
			repo_impl.NewUserRepository,
			fx.As(new(commands.UserRepository)),
			fx.As(new(queries.UserReadStore)),
		),
	),
)
