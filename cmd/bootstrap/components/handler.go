package components

import (
	"conftix/internal/handler"
	"conftix/internal/handler/api"
	"conftix/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewCheckoutHandler,
		api.NewWebhookHandler,
		api.NewCartHandler,
		api.NewCouponHandler,
		api.NewAccessHandler,
		api.NewPurchaseHandler,
		api.NewAdminHandler,
		middleware.NewAuthMiddleware,
		NewHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func NewHandlers(
	auth *api.AuthHandler,
	checkout *api.CheckoutHandler,
	webhook *api.WebhookHandler,
	cart *api.CartHandler,
	coupon *api.CouponHandler,
	access *api.AccessHandler,
	purchase *api.PurchaseHandler,
	admin *api.AdminHandler,
) handler.Handlers {
	return handler.Handlers{
		Auth:     auth,
		Checkout: checkout,
		Webhook:  webhook,
		Cart:     cart,
		Coupon:   coupon,
		Access:   access,
		Purchase: purchase,
		Admin:    admin,
	}
}
