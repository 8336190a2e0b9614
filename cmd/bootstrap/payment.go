package bootstrap

import (
	"conftix/internal/handler/api"
	"conftix/internal/infra/payment"
	"conftix/internal/pkg/config"
	"conftix/internal/usecase/commands"

	"go.uber.org/fx"
)

var PaymentModule = fx.Module("payment",
	fx.Provide(
		fx.Annotate(
			NewPaymentClient,
			fx.As(new(commands.PaymentGateway)),
			fx.As(new(api.WebhookVerifier)),
		),
	),
)

func NewPaymentClient(cfg config.Config) *payment.Client {
	return payment.NewClient(cfg.Payment)
}
