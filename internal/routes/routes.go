package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/youbairia/marketplace/internal/config"
	"github.com/youbairia/marketplace/internal/handlers"
	"github.com/youbairia/marketplace/internal/middleware"
)

// Handlers bundles every HTTP handler the router mounts
type Handlers struct {
	Auth       *handlers.AuthHandler
	Seller     *handlers.SellerHandler
	Product    *handlers.ProductHandler
	Marketer   *handlers.MarketerHandler
	Reward     *handlers.RewardHandler
	Submission *handlers.SubmissionHandler
	Payout     *handlers.PayoutHandler
	Order      *handlers.OrderHandler
	Admin      *handlers.AdminHandler
}

// RegisterRoutes configures all API routes
func RegisterRoutes(router *gin.Engine, cfg *config.Config, h Handlers, rateLimiter *middleware.RateLimiter) {
	router.Use(middleware.MetricsMiddleware())
	router.Use(rateLimiter.IPRateLimiterMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authRequired := middleware.AuthMiddleware(cfg.JWT.Secret)
	adminOnly := middleware.AdminMiddleware()

	// Auth
	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/signup", h.Auth.Signup)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.GET("/me", authRequired, h.Auth.Me)
	}

	// Public storefront
	publicGroup := router.Group("/api")
	{
		publicGroup.GET("/products", h.Product.ListPublic)
		publicGroup.GET("/products/:id", h.Product.Get)
		publicGroup.GET("/shops/:shopURL", h.Seller.GetByShopURL)
		publicGroup.GET("/tasks", h.Reward.ListOpenTasks)
		publicGroup.GET("/tasks/:id", h.Reward.GetTask)
		publicGroup.GET("/marketers", h.Marketer.List)
	}

	// Seller workspace
	sellerGroup := router.Group("/api/sellers", authRequired)
	{
		sellerGroup.POST("", h.Seller.Create)
		sellerGroup.GET("/me", h.Seller.GetMine)
		sellerGroup.POST("/products", h.Product.Create)
		sellerGroup.GET("/products", h.Product.ListMine)
		sellerGroup.POST("/tasks", h.Reward.CreateTask)
		sellerGroup.GET("/tasks", h.Reward.ListMyTasks)
		sellerGroup.PUT("/tasks/:id", h.Reward.UpdateTask)
		sellerGroup.DELETE("/tasks/:id", h.Reward.DeleteTask)
		sellerGroup.PATCH("/tasks/:id/status", h.Reward.UpdateTaskStatus)
		sellerGroup.GET("/tasks/:id/submissions", h.Submission.ListByTask)
		sellerGroup.POST("/submissions/:id/review", h.Submission.Review)
	}

	// Marketer workspace
	marketerGroup := router.Group("/api/marketers", authRequired)
	{
		marketerGroup.POST("", h.Marketer.Create)
		marketerGroup.GET("/me", h.Marketer.GetMine)
		marketerGroup.PUT("/me", h.Marketer.Update)
		marketerGroup.POST("/tasks/:id/submissions", h.Submission.Submit)
		marketerGroup.GET("/submissions", h.Submission.ListMine)
		marketerGroup.GET("/payouts", h.Payout.ListMine)
	}

	// Cart and orders
	orderGroup := router.Group("/api/orders", authRequired)
	{
		orderGroup.POST("/quote", h.Order.Quote)
		orderGroup.POST("/checkout", h.Order.Checkout)
		orderGroup.GET("/checkout/:reference/upi", h.Order.UpiLink)
		orderGroup.POST("/verify", h.Order.VerifyPayment)
		orderGroup.GET("", h.Order.ListMine)
		orderGroup.GET("/:id", h.Order.Get)
	}

	// Admin
	adminGroup := router.Group("/api/admin", authRequired, adminOnly)
	{
		adminGroup.GET("/stats", h.Admin.Stats)
		adminGroup.GET("/sellers", h.Seller.List)
		adminGroup.POST("/sellers/:id/approve", h.Seller.Approve)
		adminGroup.POST("/sellers/:id/reject", h.Seller.Reject)
		adminGroup.GET("/products", h.Product.ListAll)
		adminGroup.POST("/products/:id/approve", h.Product.Approve)
		adminGroup.POST("/products/:id/reject", h.Product.Reject)
		adminGroup.POST("/payouts", h.Payout.Initiate)
		adminGroup.GET("/payouts", h.Payout.List)
		adminGroup.GET("/payouts/:id", h.Payout.Get)
	}
}
