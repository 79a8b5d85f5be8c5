package main

import (
	"context"

	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/linemk/storefront/internal/app"
	"github.com/linemk/storefront/internal/app/handlers"
	"github.com/linemk/storefront/internal/cart"
	"github.com/linemk/storefront/internal/config"
	"github.com/linemk/storefront/internal/lib/logger"
	"github.com/linemk/storefront/internal/lib/logger/handlers/urllog"
	"github.com/linemk/storefront/internal/security/jwtmiddleware"
	"github.com/linemk/storefront/internal/service"
	"github.com/linemk/storefront/internal/storage"
	"github.com/pkg/errors"
)

func main() {
	cfg := config.MustLoad()

	log := logger.SetupLogger(cfg.Env)
	log.Info("starting app", slog.String("env", cfg.Env))

	application, err := app.NewApp(log, cfg)
	if err != nil {
		log.Error("failed to initialize app", slog.Any("error", err))
		panic(errors.Wrap(err, "failed to initialize app"))
	}
	defer application.DB.Close()

	// repositories over the shared durable stores
	userRepo := storage.NewUserRepository(application.DB)
	productRepo := storage.NewProductRepository(application.DB)
	orderRepo := storage.NewOrderRepository(application.DB)

	// one-time catalog bootstrap, skipped when any product row exists
	seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
	inserted, err := productRepo.EnsureSeedProducts(seedCtx)
	seedCancel()
	if err != nil {
		log.Error("failed to seed catalog", slog.Any("error", err))
		panic(errors.Wrap(err, "failed to seed catalog"))
	}
	if inserted > 0 {
		log.Info("catalog seeded", slog.Int("products", inserted))
	}

	// session cart registry with TTL sweeping
	cartManager := cart.NewManager(cfg.Session.TTL)
	sweeperStop := make(chan struct{})
	cartManager.StartSweeper(cfg.Session.GCInterval, sweeperStop)

	authService := service.NewAuthService(application.Logger, userRepo, time.Duration(application.Config.JWT.TokenTTL)*time.Minute)
	catalogService := service.NewCatalogService(application.Logger, productRepo)
	checkoutService := service.NewCheckoutService(application.Logger, application.DB, userRepo, orderRepo)
	orderService := service.NewOrderService(application.Logger, orderRepo)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	// public endpoints
	router.Post("/api/auth", handlers.AuthHandler(application.Logger, authService))
	router.Post("/api/register", handlers.RegisterHandler(application.Logger, authService))
	router.Get("/api/products", handlers.ListProductsHandler(application.Logger, catalogService))

	// cart endpoints, bound to the session cookie; login not required
	router.Group(func(r chi.Router) {
		r.Use(jwtmiddleware.CartSession(cartManager))
		r.Get("/api/cart", handlers.GetCartHandler(application.Logger))
		r.Post("/api/cart/add", handlers.AddToCartHandler(application.Logger, catalogService))
		r.Post("/api/cart/update", handlers.UpdateCartHandler(application.Logger))
		r.Post("/api/cart/clear", handlers.ClearCartHandler(application.Logger))
	})

	// authenticated endpoints
	router.Group(func(r chi.Router) {
		jwtMW := jwtmiddleware.NewJWTMiddleware()
		r.Use(jwtMW)
		r.Group(func(r chi.Router) {
			r.Use(jwtmiddleware.CartSession(cartManager))
			r.Post("/api/checkout", handlers.CheckoutHandler(application.Logger, checkoutService))
		})
		r.Get("/api/orders", handlers.MyOrdersHandler(application.Logger, orderService))

		// admin endpoints
		r.Group(func(r chi.Router) {
			r.Use(jwtmiddleware.RequireAdmin(cfg.Admin.Username))
			r.Get("/api/admin/orders", handlers.AdminOrdersHandler(application.Logger, orderService))
			r.Post("/api/admin/orders/{id}/status", handlers.SetStatusHandler(application.Logger, orderService))
			r.Post("/api/admin/products", handlers.AddProductHandler(application.Logger, catalogService))
			r.Get("/api/admin/metrics", handlers.MetricsHandler(application.Logger, orderService))
		})
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.Any("error", err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	stopSign := <-stop
	log.Info("received shutdown signal", slog.String("signal", stopSign.String()))

	close(sweeperStop)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", slog.Any("error", err))
	}
	log.Info("server gracefully stopped")
}
