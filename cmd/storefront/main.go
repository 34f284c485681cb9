package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/api/handlers"
	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/cache"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/health"
	"github.com/aaravmahajanofficial/storefront/internal/metrics"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/store"
	"github.com/aaravmahajanofficial/storefront/internal/telemetry"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// A missing .env is fine; the config file and real environment still apply
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("⚠️ Could not read .env file", slog.String("error", err.Error()))
	}

	// Load config
	cfg := config.MustLoad()

	ctx := context.Background()

	shutdownTracing, err := telemetry.SetupTracing(ctx, &cfg.Otel, cfg.Env, health.ComponentVersion)
	if err != nil {
		slog.Error("❌ Error setting up tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Database setup
	db, err := repository.Open(ctx, &cfg.Database)
	if err != nil {
		slog.Error("❌ Error accessing the database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.Database.MigrateOnStart {
		applied, err := repository.NewMigrator(db).Up(ctx)
		if err != nil {
			slog.Error("❌ Error applying migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}

		slog.Info("Migrations applied", slog.Int("count", applied))
	}

	repos := repository.New(db)

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	// Redis setup
	redisClient, err := repository.NewRedisClient(&cfg.RedisConnect)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer redisClient.Close()

	healthHandler, err := health.NewHealthHandler(cfg)
	if err != nil {
		slog.Error("❌ Error setting up health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	entities := store.New(repos.Coupon)
	productCache := cache.NewRedisCache(redisClient, &cfg.Cache)
	limiter := repository.NewSubmissionLimiter(redisClient, &cfg.RateConfig)

	cartHandler := handlers.NewCartHandler(service.NewCartService(repos.CartLine, entities))
	catalogHandler := handlers.NewCatalogHandler(service.NewCatalogService(repos.Catalog, repos.Comment, productCache, entities))
	couponHandler := handlers.NewCouponHandler(service.NewCouponService(repos.Coupon, entities))
	supportHandler := handlers.NewSupportHandler(service.NewSupportService(repos.SupportMessage, limiter, entities))
	authMiddleware := middleware.NewAuthMiddleware([]byte(cfg.Security.JWTKey))

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", health.ComponentVersion))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("GET /api/v1/cart", authMiddleware.Authenticate(cartHandler.GetCart()))
	routerMux.HandleFunc("DELETE /api/v1/cart", authMiddleware.Authenticate(cartHandler.ClearCart()))
	routerMux.HandleFunc("POST /api/v1/cart/items", authMiddleware.Authenticate(cartHandler.AddItem()))
	routerMux.HandleFunc("PUT /api/v1/cart/items/{productId}", authMiddleware.Authenticate(cartHandler.UpdateQuantity()))
	routerMux.HandleFunc("DELETE /api/v1/cart/items/{productId}", authMiddleware.Authenticate(cartHandler.RemoveItem()))
	routerMux.HandleFunc("GET /api/v1/categories", catalogHandler.ListCategories())
	routerMux.HandleFunc("POST /api/v1/categories", authMiddleware.Authenticate(catalogHandler.CreateCategory()))
	routerMux.HandleFunc("GET /api/v1/products", catalogHandler.ListProducts())
	routerMux.HandleFunc("POST /api/v1/products", authMiddleware.Authenticate(catalogHandler.CreateProduct()))
	routerMux.HandleFunc("GET /api/v1/products/{id}", catalogHandler.GetProduct())
	routerMux.HandleFunc("DELETE /api/v1/products/{id}", authMiddleware.Authenticate(catalogHandler.DeleteProduct()))
	routerMux.HandleFunc("PATCH /api/v1/products/{id}/featured", authMiddleware.Authenticate(catalogHandler.SetFeatured()))
	routerMux.HandleFunc("GET /api/v1/products/{id}/comments", catalogHandler.ListComments())
	routerMux.HandleFunc("POST /api/v1/products/{id}/comments", authMiddleware.Authenticate(catalogHandler.AddComment()))
	routerMux.HandleFunc("POST /api/v1/coupons", authMiddleware.Authenticate(couponHandler.CreateCoupon()))
	routerMux.HandleFunc("GET /api/v1/coupons/{code}", authMiddleware.Authenticate(couponHandler.GetCoupon()))
	routerMux.HandleFunc("POST /api/v1/coupons/{code}/redeem", authMiddleware.Authenticate(couponHandler.RedeemCoupon()))
	routerMux.HandleFunc("POST /api/v1/coupons/{code}/deactivate", authMiddleware.Authenticate(couponHandler.DeactivateCoupon()))
	routerMux.HandleFunc("POST /api/v1/support/messages", authMiddleware.Identify(supportHandler.SubmitMessage()))
	routerMux.HandleFunc("GET /api/v1/support/messages", authMiddleware.Authenticate(supportHandler.ListMessages()))
	routerMux.HandleFunc("PATCH /api/v1/support/messages/{id}/read", authMiddleware.Authenticate(supportHandler.MarkRead()))
	routerMux.HandleFunc("DELETE /api/v1/support/messages/{id}", authMiddleware.Authenticate(supportHandler.DeleteMessage()))
	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("GET /metrics", metrics.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, "storefront")

	// Setup http server
	server := http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("❌ Failed to start server", slog.String("error", err.Error()))
			done <- syscall.SIGTERM
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("⚠️ Trace exporter shutdown failed", slog.String("error", err.Error()))
	}
}
