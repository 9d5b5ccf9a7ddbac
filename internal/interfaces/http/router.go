package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/vendo-inc/vendo/internal/application/payment/gateway"
	"github.com/vendo-inc/vendo/internal/application/subscription/usecases"
	"github.com/vendo-inc/vendo/internal/infrastructure/billing"
	infraCache "github.com/vendo-inc/vendo/internal/infrastructure/cache"
	"github.com/vendo-inc/vendo/internal/infrastructure/config"
	infraCustomer "github.com/vendo-inc/vendo/internal/infrastructure/customer"
	"github.com/vendo-inc/vendo/internal/infrastructure/payment"
	"github.com/vendo-inc/vendo/internal/infrastructure/repository"
	"github.com/vendo-inc/vendo/internal/interfaces/http/handlers"
	"github.com/vendo-inc/vendo/internal/interfaces/http/middleware"
	"github.com/vendo-inc/vendo/internal/shared/logger"
	"github.com/vendo-inc/vendo/internal/shared/utils"
)

// Router represents the HTTP router configuration
type Router struct {
	engine              *gin.Engine
	subscriptionHandler *handlers.SubscriptionHandler
	cfg                 *config.Config
	logger              logger.Interface
}

// NewRouter creates a new HTTP router with all dependencies
func NewRouter(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) (*Router, error) {
	engine := gin.New()

	subscriptionRepo := repository.NewSubscriptionRepository(db, log)
	outboxRepo := repository.NewInvoiceNotificationRepository(db, log)

	var checkoutGateway gateway.CheckoutGateway
	if cfg.Stripe.APIKey != "" {
		stripeGateway, err := payment.NewStripeGateway(&cfg.Stripe, log)
		if err != nil {
			return nil, err
		}
		checkoutGateway = stripeGateway
	} else {
		// Local development without gateway credentials.
		log.Warnw("stripe API key not configured, using mock checkout gateway")
		checkoutGateway = gateway.NewMockGateway(true)
	}

	customerDir := infraCustomer.NewHTTPDirectory(&cfg.Customer, log)
	invoiceNotifier := billing.NewHTTPNotifier(&cfg.Billing, log)

	initiateUC := usecases.NewInitiateCheckoutUseCase(subscriptionRepo, customerDir, checkoutGateway, log)
	confirmUC := usecases.NewConfirmSubscriptionUseCase(subscriptionRepo, checkoutGateway, outboxRepo, invoiceNotifier, log)

	if redisClient != nil {
		sessionCache := infraCache.NewSessionIndexCache(
			redisClient,
			time.Duration(cfg.Checkout.SessionCacheTTLMinutes)*time.Minute,
		)
		initiateUC.SetSessionCache(sessionCache)
		confirmUC.SetSessionCache(sessionCache)
	}

	getUC := usecases.NewGetSubscriptionUseCase(subscriptionRepo, log)
	listUC := usecases.NewListCustomerSubscriptionsUseCase(subscriptionRepo, log)
	suspendUC := usecases.NewSuspendSubscriptionUseCase(subscriptionRepo, log)
	cancelUC := usecases.NewCancelSubscriptionUseCase(subscriptionRepo, log)

	subscriptionHandler := handlers.NewSubscriptionHandler(
		initiateUC, confirmUC, getUC, listUC, suspendUC, cancelUC, log,
	)

	return &Router{
		engine:              engine,
		subscriptionHandler: subscriptionHandler,
		cfg:                 cfg,
		logger:              log,
	}, nil
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Logger(r.logger))
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.CORS(r.cfg.Server.AllowedOrigins))

	r.engine.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, 200, "", gin.H{"status": "ok"})
	})

	api := r.engine.Group("/api")
	{
		subscriptions := api.Group("/subscriptions")
		{
			subscriptions.POST("", r.subscriptionHandler.InitiateCheckout)
			subscriptions.GET("", r.subscriptionHandler.ListSubscriptions)
			subscriptions.POST("/confirm-by-session", r.subscriptionHandler.ConfirmBySession)
			subscriptions.GET("/:id", r.subscriptionHandler.GetSubscription)
			subscriptions.POST("/:id/confirm", r.subscriptionHandler.ConfirmSubscription)
			subscriptions.POST("/:id/suspend", r.subscriptionHandler.SuspendSubscription)
			subscriptions.POST("/:id/cancel", r.subscriptionHandler.CancelSubscription)
		}
	}
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
