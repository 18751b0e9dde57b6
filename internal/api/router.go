package api

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tarotnautica/backend/internal/ai"
	"github.com/tarotnautica/backend/internal/api/handlers"
	"github.com/tarotnautica/backend/internal/auth"
	"github.com/tarotnautica/backend/internal/cache"
	"github.com/tarotnautica/backend/internal/config"
	"github.com/tarotnautica/backend/internal/database"
	"github.com/tarotnautica/backend/internal/entitlement"
	"github.com/tarotnautica/backend/internal/middleware"
	"github.com/tarotnautica/backend/internal/payments"
	"github.com/tarotnautica/backend/internal/ratelimit"
	"github.com/tarotnautica/backend/internal/repository"
	"github.com/tarotnautica/backend/internal/service"
)

// NewRouter creates and configures the main router
func NewRouter(cfg *config.Config, db *database.DB, redisCache *cache.Redis) *chi.Mux {
	r := chi.NewRouter()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	tarotRepo := repository.NewTarotRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	// Auth plumbing
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authMiddleware := auth.NewAuthMiddleware(jwtService)

	rateLimiter := ratelimit.NewRateLimiterWithLimits(redisCache,
		ratelimit.LimitsWithAuthenticatedPerMinute(cfg.RateLimitPerMinute))

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Timing)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORSWithOrigins(cfg.CORSOrigins))
	r.Use(authMiddleware.OptionalAuth) // identifies users for rate limiting
	r.Use(rateLimiter.Middleware)

	// The ledger service: every gem and counter mutation runs through it.
	ledger := entitlement.NewService(db, profileRepo, catalogRepo)

	// AI interpretation
	anthropicClient := ai.NewAnthropicClient(cfg.AnthropicAPIKey)
	interpreter := ai.NewInterpreter(anthropicClient, cfg.AnthropicModel)

	// Payment providers
	stripeGW := payments.NewStripeGateway(payments.StripeConfig{
		SecretKey:           cfg.StripeSecretKey,
		SubscriptionPriceID: cfg.StripePriceID,
		WebhookSecret:       cfg.StripeWebhookSecret,
	})
	paypalBase := payments.PayPalSandboxURL
	if cfg.PayPalEnv == "live" {
		paypalBase = payments.PayPalLiveURL
	}
	paypalClient := payments.NewPayPalClient(payments.PayPalConfig{
		ClientID:  cfg.PayPalClientID,
		Secret:    cfg.PayPalSecret,
		BaseURL:   paypalBase,
		PlanID:    cfg.PayPalPlanID,
		BrandName: "Tarotnautica",
		ReturnURL: cfg.PayPalReturnURL,
		CancelURL: cfg.PayPalCancelURL,
	}, payments.NewMemoryTokenStore())

	// Services
	cacheTTL := time.Duration(cfg.CacheTTL) * time.Second
	readingService := service.NewReadingService(tarotRepo, ledger, interpreter, redisCache, cacheTTL)
	paymentService := service.NewPaymentService(db, paymentRepo, profileRepo, ledger, stripeGW, paypalClient, service.GemPack{
		PriceCents: cfg.GemPackPriceCents,
		Gems:       cfg.GemPackGems,
	})

	// Handlers
	healthHandler := handlers.NewHealthChecker(db, redisCache)
	authHandler := handlers.NewAuthHandler(userRepo, jwtService)
	profileHandler := handlers.NewProfileHandler(profileRepo, ledger, readingService)
	catalogHandler := handlers.NewCatalogHandler(catalogRepo, ledger)
	tarotHandler := handlers.NewTarotHandler(readingService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)

	// Health endpoints
	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", handlers.LivenessProbe)
	r.Get("/health/ready", healthHandler.ReadinessProbe)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Public catalog endpoints
		r.Get("/cards", tarotHandler.ListCards)
		r.Get("/cards/{id}", tarotHandler.GetCard)
		r.Get("/spreads", tarotHandler.ListSpreadTypes)
		r.Get("/spells", catalogHandler.ListSpells)
		r.Get("/potions", catalogHandler.ListPotions)

		// Stripe webhook (authenticated by signature, not JWT)
		r.Post("/webhooks/stripe", paymentHandler.StripeWebhook)

		// Protected endpoints
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/user/me", authHandler.GetCurrentUser)

			// Ledger
			r.Get("/profile", profileHandler.GetProfile)
			r.Post("/gems/purchase", profileHandler.PurchaseGems)
			r.Post("/readings/use", profileHandler.UseReading)
			r.Post("/subscription/activate", profileHandler.ActivateSubscription)
			r.Post("/subscription/cancel", profileHandler.CancelSubscription)

			// Readings
			r.Post("/readings", tarotHandler.CreateReading)
			r.Get("/readings", tarotHandler.ListReadings)
			r.Get("/readings/{id}", tarotHandler.GetReading)

			// Catalog purchases
			r.Get("/spells/owned", catalogHandler.OwnedSpells)
			r.Get("/potions/owned", catalogHandler.OwnedPotions)
			r.Post("/spells/{id}/purchase", catalogHandler.PurchaseSpell)
			r.Post("/potions/{id}/purchase", catalogHandler.PurchasePotion)

			// Payments
			r.Post("/payments/stripe/intent", paymentHandler.CreateStripeIntent)
			r.Post("/payments/stripe/subscription", paymentHandler.CreateStripeSubscription)
			r.Post("/payments/stripe/subscription/cancel", paymentHandler.CancelStripeSubscription)
			r.Post("/payments/paypal/order", paymentHandler.CreatePayPalOrder)
			r.Post("/payments/paypal/order/{orderID}/capture", paymentHandler.CapturePayPalOrder)
			r.Post("/payments/paypal/subscription", paymentHandler.CreatePayPalSubscription)
			r.Post("/payments/paypal/subscription/activate", paymentHandler.ActivatePayPalSubscription)
			r.Post("/payments/paypal/subscription/cancel", paymentHandler.CancelPayPalSubscription)
		})
	})

	return r
}
