package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/nexusmart/storefront-gateway/api/controllers"
	"github.com/nexusmart/storefront-gateway/api/routes"
	"github.com/nexusmart/storefront-gateway/internal/cart"
	"github.com/nexusmart/storefront-gateway/internal/catalog"
	"github.com/nexusmart/storefront-gateway/internal/checkout"
	"github.com/nexusmart/storefront-gateway/internal/orders"
	"github.com/nexusmart/storefront-gateway/internal/shipments"
	"github.com/nexusmart/storefront-gateway/internal/users"
	"github.com/nexusmart/storefront-gateway/pkg/config"
	"github.com/nexusmart/storefront-gateway/pkg/logger"
	"github.com/nexusmart/storefront-gateway/pkg/metrics"
	pkgredis "github.com/nexusmart/storefront-gateway/pkg/redis"
	"github.com/nexusmart/storefront-gateway/pkg/telemetry"
	"github.com/nexusmart/storefront-gateway/pkg/upstream"
)

const serviceVersion = "1.0.0"

func main() {
	logg := logger.New(logger.Options{ServiceName: "gateway"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "gateway",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	shutdownTracing, err := telemetry.Init(context.Background(), cfg.Telemetry, "storefront-gateway", serviceVersion)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap tracing", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logg.Error(ctx, "error shutting down tracing", err)
		}
	}()

	redisClient, err := pkgredis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	upstreamMetrics := metrics.NewUpstreamMetrics(registry)

	timeout := cfg.Services.RequestTimeout
	inventoryBase := mustUpstream(logg, "inventory", cfg.Services.InventoryURL, timeout, upstreamMetrics)
	cartBase := mustUpstream(logg, "cart", cfg.Services.CartURL, timeout, upstreamMetrics)
	orderBase := mustUpstream(logg, "order", cfg.Services.OrderURL, timeout, upstreamMetrics)
	shipmentBase := mustUpstream(logg, "shipment", cfg.Services.ShipmentURL, timeout, upstreamMetrics)
	userBase := mustUpstream(logg, "user", cfg.Services.UserURL, timeout, upstreamMetrics)

	catalogClient := mustBuild(logg, "catalog client", func() (*catalog.Client, error) { return catalog.NewClient(inventoryBase) })
	cartClient := mustBuild(logg, "cart client", func() (*cart.Client, error) { return cart.NewClient(cartBase) })
	orderClient := mustBuild(logg, "order client", func() (*orders.Client, error) { return orders.NewClient(orderBase) })
	shipmentClient := mustBuild(logg, "shipment client", func() (*shipments.Client, error) { return shipments.NewClient(shipmentBase) })
	userClient := mustBuild(logg, "user client", func() (*users.Client, error) { return users.NewClient(userBase) })

	catalogCache := mustBuild(logg, "catalog cache", func() (*catalog.Cache, error) { return catalog.NewCache(catalogClient) })
	reconciler := mustBuild(logg, "cart reconciler", func() (*cart.Reconciler, error) { return cart.NewReconciler(cartClient, catalogCache) })
	checkoutService := mustBuild(logg, "checkout service", func() (*checkout.Service, error) { return checkout.NewService(orderClient) })

	handler := routes.NewRouter(cfg, logg, routes.Deps{
		Auth:        userClient,
		Catalog:     catalogCache,
		Inventory:   catalogClient,
		Cart:        reconciler,
		Checkout:    checkoutService,
		CartLoader:  reconciler,
		Orders:      orderClient,
		OrdersAll:   orderClient,
		Shipments:   shipmentClient,
		ShipAdmin:   shipmentClient,
		Profile:     userClient,
		Limiter:     redisClient,
		Idempotency: redisClient,
		Registry:    registry,
		Pingers: []controllers.Pinger{
			redisClient,
			catalogClient,
			cartClient,
			orderClient,
			shipmentClient,
			userClient,
		},
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting storefront gateway")

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "gateway stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}

func mustUpstream(logg *logger.Logger, service, baseURL string, timeout time.Duration, m *metrics.UpstreamMetrics) *upstream.Client {
	client, err := upstream.New(service, baseURL, timeout, logg, m)
	if err != nil {
		logg.Error(context.Background(), "failed to build "+service+" upstream client", err)
		os.Exit(1)
	}
	return client
}

func mustBuild[T any](logg *logger.Logger, name string, build func() (T, error)) T {
	value, err := build()
	if err != nil {
		logg.Error(context.Background(), "failed to build "+name, err)
		os.Exit(1)
	}
	return value
}
