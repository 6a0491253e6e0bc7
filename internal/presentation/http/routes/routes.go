package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/sangkips/ventapett-pos/internal/config"
	"github.com/sangkips/ventapett-pos/internal/domain/enum"
	domainRepo "github.com/sangkips/ventapett-pos/internal/domain/repository"
	"github.com/sangkips/ventapett-pos/internal/presentation/http/handler"
	"github.com/sangkips/ventapett-pos/internal/presentation/http/middleware"
	"github.com/sangkips/ventapett-pos/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth    *handler.AuthHandler
	Product *handler.ProductHandler
	User    *handler.UserHandler
	Cart    *handler.CartHandler
	Sale    *handler.SaleHandler
	Cashout *handler.CashoutHandler
	History *handler.HistoryHandler
	Printer *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Sessions        middleware.SessionStore
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.UserRateLimiter
	// Gatherer serves /metrics; nil disables the endpoint.
	Gatherer prometheus.Gatherer
	Log      *logrus.Logger
}

// NewRateLimiter builds the per-user limiter from config
func NewRateLimiter(cfg config.RateLimitConfig) *middleware.UserRateLimiter {
	rl := middleware.DefaultRateLimiterConfig()
	if cfg.Requests > 0 && cfg.Duration > 0 {
		rl.RequestsPerSecond = float64(cfg.Requests) / float64(cfg.Duration)
		rl.BurstSize = cfg.Requests
	}
	rl.CleanupInterval = 5 * time.Minute
	rl.EntryTTL = 10 * time.Minute
	return middleware.NewUserRateLimiter(rl)
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})
	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	v1 := router.Group("/api/v1")
	{
		public := v1.Group("")
		if deps.RateLimiter != nil {
			public.Use(deps.RateLimiter.Middleware())
		}
		public.POST("/auth/login", h.Auth.Login)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager, deps.Sessions))
		if deps.RateLimiter != nil {
			protected.Use(deps.RateLimiter.Middleware())
		}

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerProtectedRoutes(rg *gin.RouterGroup, h *Handlers, deps *Deps) {
	admin := middleware.RequireRole(enum.RoleAdmin)

	auth := rg.Group("/auth")
	{
		auth.POST("/logout", h.Auth.Logout)
		auth.GET("/me", h.Auth.Me)
	}

	products := rg.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/:id", h.Product.Get)
		products.POST("", admin, h.Product.Create)
		products.PUT("/:id", admin, h.Product.Update)
		products.DELETE("/:id", admin, h.Product.Delete)
	}

	categories := rg.Group("/categories")
	{
		categories.GET("", h.Product.ListCategories)
		categories.POST("", admin, h.Product.CreateCategory)
		categories.PUT("/:id", admin, h.Product.UpdateCategory)
		categories.DELETE("/:id", admin, h.Product.DeleteCategory)
	}

	users := rg.Group("/users", admin)
	{
		users.GET("", h.User.List)
		users.GET("/sellers", h.User.ListSellers)
		users.POST("", h.User.Create)
		users.PUT("/:id", h.User.Update)
		users.DELETE("/:id", h.User.Delete)
	}

	cart := rg.Group("/cart")
	{
		cart.GET("", h.Cart.Get)
		cart.POST("/items", h.Cart.AddItem)
		cart.DELETE("/items/:productId", h.Cart.RemoveItem)
		cart.DELETE("", h.Cart.Clear)
	}

	sales := rg.Group("/sales")
	{
		sales.POST("",
			middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo, Log: deps.Log}),
			h.Sale.Checkout)
		sales.GET("/receipt", h.Sale.PendingReceipt)
		sales.POST("/receipt/ack", h.Sale.AcknowledgeReceipt)
		sales.POST("/receipt/print", h.Sale.PrintReceipt)

		sales.GET("/history", admin, h.History.List)
		sales.GET("/history/export", admin, h.History.Export)
		sales.PUT("/:id", admin, h.History.Update)
		sales.DELETE("/:id", admin, h.History.Void)
	}

	cashout := rg.Group("/cashout")
	{
		cashout.POST("/open", h.Cashout.Open)
		cashout.PUT("/filter", h.Cashout.SetFilter)
		cashout.POST("/refresh", h.Cashout.Refresh)
		cashout.GET("", h.Cashout.Report)
		cashout.PUT("/counts", h.Cashout.SetCount)
		cashout.DELETE("/counts", h.Cashout.ResetCounts)
		cashout.POST("/save",
			middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo, Log: deps.Log}),
			h.Cashout.Save)
		cashout.DELETE("", h.Cashout.Close)
		cashout.GET("/export", h.Cashout.Export)
		cashout.POST("/print", h.Cashout.Print)
	}

	rg.GET("/printer/status", h.Printer.GetStatus)
}
