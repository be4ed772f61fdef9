package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/youbairia/marketplace/internal/config"
	"github.com/youbairia/marketplace/internal/database"
	"github.com/youbairia/marketplace/internal/handlers"
	"github.com/youbairia/marketplace/internal/jobs"
	"github.com/youbairia/marketplace/internal/middleware"
	"github.com/youbairia/marketplace/internal/queue"
	"github.com/youbairia/marketplace/internal/routes"
	"github.com/youbairia/marketplace/internal/services/admin"
	"github.com/youbairia/marketplace/internal/services/auth"
	"github.com/youbairia/marketplace/internal/services/catalog"
	"github.com/youbairia/marketplace/internal/services/marketer"
	"github.com/youbairia/marketplace/internal/services/order"
	"github.com/youbairia/marketplace/internal/services/payment"
	"github.com/youbairia/marketplace/internal/services/payment/providers/razorpay"
	"github.com/youbairia/marketplace/internal/services/payment/providers/upi"
	"github.com/youbairia/marketplace/internal/services/payout"
	"github.com/youbairia/marketplace/internal/services/reward"
	"github.com/youbairia/marketplace/internal/services/seller"
)

func main() {
	cfg := config.LoadConfig()

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		log.Fatalf("Invalid Redis URL: %v", err)
	}
	if cfg.Redis.Password != "" {
		redisOpts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		redisOpts.DB = cfg.Redis.DB
	}
	redisClient := redis.NewClient(redisOpts)

	ctx := context.Background()
	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	redisQueue := queue.NewRedisQueue(redisClient)

	// Payment rails
	razorpayProvider := razorpay.NewProvider(razorpay.Config{
		KeyID:     cfg.Razorpay.KeyID,
		KeySecret: cfg.Razorpay.KeySecret,
		BaseURL:   cfg.Razorpay.BaseURL,
	})
	upiProvider := upi.NewProvider(upi.Config{
		BaseURL:   cfg.UPI.BaseURL,
		APIKey:    cfg.UPI.APIKey,
		PayeeName: cfg.UPI.PayeeName,
	})

	paymentService := payment.NewService()
	paymentService.RegisterCheckout("razorpay", razorpayProvider)
	paymentService.RegisterDisbursement("upi", upiProvider)

	checkoutRail, err := paymentService.Checkout("razorpay")
	if err != nil {
		log.Fatalf("Failed to resolve checkout rail: %v", err)
	}
	disbursementRail, err := paymentService.Disbursement("upi")
	if err != nil {
		log.Fatalf("Failed to resolve disbursement rail: %v", err)
	}

	// Services
	throttle := middleware.NewLoginThrottle(redisClient, cfg.Throttle.MaxAttempts,
		time.Duration(cfg.Throttle.WindowMinutes)*time.Minute)
	authService := auth.NewService(db, cfg.JWT, throttle)
	sellerService := seller.NewService(db)
	catalogService := catalog.NewService(db)
	marketerService := marketer.NewService(db)
	rewardService := reward.NewService(db)
	payoutEnqueuer := queue.NewPayoutEnqueuer(redisQueue,
		time.Duration(cfg.Payout.StatusCheckDelayMinutes)*time.Minute, cfg.Payout.StatusCheckRetries)
	payoutService := payout.NewService(db, disbursementRail, payoutEnqueuer)
	orderService := order.NewService(db, checkoutRail)
	adminService := admin.NewService(db)

	// Background jobs
	worker := queue.NewWorker(redisQueue)
	jobs.RegisterAllJobHandlers(worker, payoutService)
	worker.Start(ctx)

	reconciliation := jobs.NewPayoutReconciliationJob(payoutService, cfg.Payout)
	if err := reconciliation.Start(); err != nil {
		log.Fatalf("Failed to start payout reconciliation: %v", err)
	}

	// HTTP surface
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	rateLimiter := middleware.NewRateLimiter(20, 40)

	routes.RegisterRoutes(router, cfg, routes.Handlers{
		Auth:       handlers.NewAuthHandler(authService),
		Seller:     handlers.NewSellerHandler(sellerService),
		Product:    handlers.NewProductHandler(catalogService, sellerService),
		Marketer:   handlers.NewMarketerHandler(marketerService),
		Reward:     handlers.NewRewardHandler(rewardService, sellerService),
		Submission: handlers.NewSubmissionHandler(rewardService, sellerService, marketerService),
		Payout:     handlers.NewPayoutHandler(payoutService, marketerService),
		Order:      handlers.NewOrderHandler(orderService, db, cfg.UPI),
		Admin:      handlers.NewAdminHandler(adminService),
	}, rateLimiter)

	srv := startServer(router, cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	reconciliation.Stop()
	worker.Stop()
	rateLimiter.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}

// startServer starts the HTTP server
func startServer(router *gin.Engine, port string) *http.Server {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Server started on port %s", port)
	return srv
}
