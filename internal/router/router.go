package router

import (
	"time"

	"github.com/agromanage/agromanage/internal/handlers"
	"github.com/agromanage/agromanage/internal/metrics"
	"github.com/agromanage/agromanage/internal/middleware"
	"github.com/agromanage/agromanage/internal/types"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Options struct {
	AllowedOrigins []string
	// LoginLimiter throttles POST /api/auth/login/:role per client IP. Nil
	// disables throttling.
	LoginLimiter *middleware.RateLimiter
	Logger       *zap.Logger
}

func NewRouter(h *handlers.Handler, opts Options) *gin.Engine {
	handlers.RegisterValidators()

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.Metrics(),
	)

	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With", types.RequestIDHeader},
			ExposeHeaders:    []string{"Content-Length", types.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	authenticated := middleware.AuthMiddleware(h.Tokens)
	adminOnly := middleware.RequireRoles(types.RoleAdmin)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)

		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Register)

			login := []gin.HandlerFunc{h.Login}
			if opts.LoginLimiter != nil {
				login = append([]gin.HandlerFunc{opts.LoginLimiter.Handler()}, login...)
			}
			auth.POST("/login/:role", login...)

			auth.GET("/me", authenticated, h.Me)
		}

		products := api.Group("/products")
		{
			products.GET("", h.ListProducts)
			products.GET("/:id", h.GetProduct)
			products.POST("", authenticated, middleware.RequireRoles(types.RoleAdmin, types.RoleFarmer), h.CreateProduct)
			products.PUT("/:id", authenticated, adminOnly, h.UpdateProduct)
			products.DELETE("/:id", authenticated, adminOnly, h.DeleteProduct)
		}

		orders := api.Group("/orders", authenticated)
		{
			orders.GET("", h.ListOrders)
			orders.GET("/:id", h.GetOrder)
			orders.POST("", h.CreateOrder)
			orders.PATCH("/:id/status", adminOnly, h.UpdateOrderStatus)
		}

		loans := api.Group("/loans", authenticated)
		{
			loans.GET("", h.ListLoans)
			loans.GET("/:id", h.GetLoan)
			loans.POST("", h.CreateLoan)
			loans.PATCH("/:id/status", adminOnly, h.UpdateLoanStatus)
		}

		alerts := api.Group("/alerts")
		{
			alerts.GET("", h.ListAlerts)
			alerts.GET("/ws", h.AlertStream)
			alerts.GET("/:id", h.GetAlert)
			alerts.POST("", authenticated, adminOnly, h.CreateAlert)
		}
	}

	return r
}
