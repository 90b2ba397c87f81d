package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/avelarsoto/storeops-backend/api/routes"
	"github.com/avelarsoto/storeops-backend/internal/inventory"
	"github.com/avelarsoto/storeops-backend/internal/orders"
	"github.com/avelarsoto/storeops-backend/internal/performance"
	"github.com/avelarsoto/storeops-backend/internal/products"
	"github.com/avelarsoto/storeops-backend/internal/stores"
	"github.com/avelarsoto/storeops-backend/internal/suppliers"
	"github.com/avelarsoto/storeops-backend/pkg/config"
	"github.com/avelarsoto/storeops-backend/pkg/db"
	"github.com/avelarsoto/storeops-backend/pkg/logger"
	"github.com/avelarsoto/storeops-backend/pkg/metrics"
	"github.com/avelarsoto/storeops-backend/pkg/migrate"
	"github.com/avelarsoto/storeops-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	services, err := buildServices(dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to wire services", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics()

	router := routes.NewRouter(
		cfg,
		logg,
		dbClient,
		redisClient,
		httpMetrics,
		services.orders,
		services.inventory,
		services.products,
		services.suppliers,
		services.stores,
		services.performance,
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var closeErr error
	closeErr = multierr.Append(closeErr, server.Shutdown(shutdownCtx))
	closeErr = multierr.Append(closeErr, redisClient.Close())
	closeErr = multierr.Append(closeErr, dbClient.Close())
	if closeErr != nil {
		logg.Error(ctx, "shutdown finished with errors", closeErr)
		os.Exit(1)
	}
	logg.Info(ctx, "shutdown complete")
}

type apiServices struct {
	orders      orders.Service
	inventory   inventory.Service
	products    products.Service
	suppliers   suppliers.Service
	stores      stores.Service
	performance performance.Service
}

func buildServices(dbClient *db.Client) (*apiServices, error) {
	gdb := dbClient.DB()

	productsService, err := products.NewService(products.NewRepository(gdb))
	if err != nil {
		return nil, err
	}
	suppliersService, err := suppliers.NewService(suppliers.NewRepository(gdb))
	if err != nil {
		return nil, err
	}
	storesService, err := stores.NewService(stores.NewRepository(gdb))
	if err != nil {
		return nil, err
	}
	inventoryService, err := inventory.NewService(inventory.NewRepository(gdb), dbClient)
	if err != nil {
		return nil, err
	}
	ordersService, err := orders.NewService(orders.NewRepository(gdb), dbClient, productsService, inventoryService)
	if err != nil {
		return nil, err
	}
	performanceService, err := performance.NewService(performance.NewRepository(gdb))
	if err != nil {
		return nil, err
	}

	return &apiServices{
		orders:      ordersService,
		inventory:   inventoryService,
		products:    productsService,
		suppliers:   suppliersService,
		stores:      storesService,
		performance: performanceService,
	}, nil
}
