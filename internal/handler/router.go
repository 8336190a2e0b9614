package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"conftix/internal/domain/user"
	"conftix/internal/handler/api"
	"conftix/internal/handler/middleware"
	"conftix/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Auth     *api.AuthHandler
	Checkout *api.CheckoutHandler
	Webhook  *api.WebhookHandler
	Cart     *api.CartHandler
	Coupon   *api.CouponHandler
	Access   *api.AccessHandler
	Purchase *api.PurchaseHandler
	Admin    *api.AdminHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, handlers Handlers, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, handlers, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: h.Auth.Login},
				{Method: http.MethodPost, Path: "/refresh", Handler: h.Auth.Refresh},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "/logout", Handler: h.Auth.Logout},
				{Method: http.MethodGet, Path: "/me", Handler: h.Auth.Me},
			})
		}

		checkout := apiGroup.Group("/checkout")
		checkout.Use(authMiddleware.OptionalAuth())
		{
			addRoutes(checkout, []route{
				{Method: http.MethodPost, Path: "/session", Handler: h.Checkout.CreateSession},
				{Method: http.MethodPost, Path: "/confirm", Handler: h.Checkout.Confirm},
			})
		}

		cart := apiGroup.Group("/cart")
		{
			addRoutes(cart, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Cart.GetCart},
				{Method: http.MethodDelete, Path: "", Handler: h.Cart.ClearCart},
				{Method: http.MethodPost, Path: "/items", Handler: h.Cart.AddItem},
				{Method: http.MethodDelete, Path: "/items/:product_id", Handler: h.Cart.RemoveItem},
			})
		}

		addRoutes(apiGroup, []route{
			{Method: http.MethodPost, Path: "/coupons/evaluate", Handler: h.Coupon.Evaluate},
			{Method: http.MethodPost, Path: "/webhooks/payment", Handler: h.Webhook.HandlePaymentEvent},
			{Method: http.MethodGet, Path: "/access", Handler: h.Access.CheckAccess,
				Mw: []gin.HandlerFunc{authMiddleware.OptionalAuth()}},
			{Method: http.MethodGet, Path: "/purchases", Handler: h.Purchase.GetUserPurchases,
				Mw: []gin.HandlerFunc{authMiddleware.RequireAuth()}},
		})

		admin := apiGroup.Group("/admin")
		admin.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRoleAtLeast(user.RoleAdmin))
		{
			addRoutes(admin, []route{
				{Method: http.MethodPost, Path: "/grants", Handler: h.Admin.CreateGrant},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
