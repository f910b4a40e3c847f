package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"parts-checkout/internal/core/cache"
	"parts-checkout/internal/core/config"
	"parts-checkout/internal/core/httpclient"
	"parts-checkout/internal/core/logger"
	"parts-checkout/internal/core/server"
	"parts-checkout/internal/core/storeapi"
	cartadapters "parts-checkout/internal/features/cart/adapters"
	checkoutadapters "parts-checkout/internal/features/checkout/adapters"
	checkouthandler "parts-checkout/internal/features/checkout/handler"
	checkoutservice "parts-checkout/internal/features/checkout/service"
	paymentadapters "parts-checkout/internal/features/payments/adapters"
	paymentservice "parts-checkout/internal/features/payments/service"
	shippingadapters "parts-checkout/internal/features/shipping/adapters"
	shippingservice "parts-checkout/internal/features/shipping/service"

	"go.uber.org/zap"
)

const janitorInterval = time.Minute

// @title Parts Checkout API
// @version 1.0
// @description Checkout orchestration for the vehicle-parts storefront: cart, shipping quotes and payment dispatch.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel, "parts-checkout"); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
		zap.String("store_api", cfg.Store.URL),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisCache, err := cache.NewRedisAdapter(cfg.Redis.URL)
	if err != nil {
		l.Fatal("Failed to configure Redis", zap.Error(err))
	}
	defer redisCache.Close()
	if err := redisCache.Ping(ctx); err != nil {
		l.Fatal("Redis Health Check Failed", zap.Error(err))
	}
	l.Info("Redis connection verified")
	store := redisCache.WithPrefix(cfg.Redis.KeyPrefix)

	// The rating service is the slowest dependency; it gets its own breaker so an
	// outage fails quotes fast instead of stacking up timeouts.
	storeClient := storeapi.New(cfg.Store.URL, httpclient.NewClient(cfg.Store.Timeout()))
	rateClient := storeapi.New(cfg.Store.URL, httpclient.NewClient(cfg.Store.Timeout(),
		httpclient.WithBreaker("shipping-rates", cfg.Breaker.MaxFailures, time.Duration(cfg.Breaker.OpenSeconds)*time.Second),
	))

	// Shipping
	weights := shippingservice.NewWeightResolver(shippingadapters.NewStorePartsCatalog(storeClient), cfg.Checkout.WeightLookupConcurrent)
	quotes := shippingservice.NewQuoteService(weights, shippingadapters.NewStoreRateProvider(rateClient))

	// Payments
	methodCatalog := paymentadapters.NewStoreMethodCatalog(storeClient)
	dispatcher := paymentservice.NewDispatcher(
		paymentadapters.NewStoreOrderService(storeClient),
		paymentadapters.NewStorePaymentGateway(storeClient),
		paymentadapters.NewRedisPendingOrderStore(store, cfg.Checkout.SnapshotTTL()),
		paymentservice.NewFormSanitizer(),
		paymentservice.DispatcherConfig{
			PublicURL: cfg.Checkout.PublicURL,
			Currency:  cfg.Checkout.Currency,
			ShopName:  cfg.Checkout.ShopName,
		},
	)

	// Checkout
	catalog := checkoutadapters.NewCachedCatalog(
		methodCatalog,
		checkoutadapters.NewStoreProvinceSource(storeClient),
		store,
		cfg.Checkout.CatalogTTL(),
	)
	checkoutSvc := checkoutservice.NewCheckoutService(
		cartadapters.NewRedisCartStore(store, cfg.Checkout.SnapshotTTL()),
		catalog,
		quotes,
		dispatcher,
		checkoutadapters.NewStoreProfileProvider(storeClient),
		checkoutservice.Config{
			PublicURL:     cfg.Checkout.PublicURL,
			QuoteDebounce: cfg.Checkout.QuoteDebounce(),
			QuoteTimeout:  cfg.Checkout.QuoteTimeout(),
			SessionTTL:    cfg.Checkout.SessionTTL(),
		},
	)
	defer checkoutSvc.Close()
	go checkoutSvc.RunJanitor(ctx, janitorInterval)

	srv := server.New(cfg)
	srv.RegisterHealth(map[string]server.HealthCheck{
		"redis": redisCache.Ping,
	})

	// Register Routes
	checkouthandler.NewCheckoutHandler(checkoutSvc).Register(srv.App)

	go func() {
		<-ctx.Done()
		l.Info("Shutting down")
		if err := srv.App.ShutdownWithTimeout(10 * time.Second); err != nil {
			l.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
