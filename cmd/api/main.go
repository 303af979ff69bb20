package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/lumine-jewelry/lumine-backend/api/routes"
	"github.com/lumine-jewelry/lumine-backend/internal/admin"
	authsvc "github.com/lumine-jewelry/lumine-backend/internal/auth"
	"github.com/lumine-jewelry/lumine-backend/internal/cart"
	"github.com/lumine-jewelry/lumine-backend/internal/designs"
	"github.com/lumine-jewelry/lumine-backend/internal/inventory"
	"github.com/lumine-jewelry/lumine-backend/internal/jewelers"
	"github.com/lumine-jewelry/lumine-backend/internal/orders"
	"github.com/lumine-jewelry/lumine-backend/internal/paymentmethods"
	"github.com/lumine-jewelry/lumine-backend/internal/products"
	"github.com/lumine-jewelry/lumine-backend/internal/users"
	"github.com/lumine-jewelry/lumine-backend/pkg/config"
	"github.com/lumine-jewelry/lumine-backend/pkg/db"
	"github.com/lumine-jewelry/lumine-backend/pkg/genai"
	"github.com/lumine-jewelry/lumine-backend/pkg/logger"
	"github.com/lumine-jewelry/lumine-backend/pkg/metrics"
	"github.com/lumine-jewelry/lumine-backend/pkg/migrate"
	"github.com/lumine-jewelry/lumine-backend/pkg/redis"
	"github.com/lumine-jewelry/lumine-backend/pkg/uploads"
)

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
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	genaiClient, err := genai.NewClient(cfg.GenAI, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create genai client", err)
		os.Exit(1)
	}

	conn := dbClient.DB()
	userRepo := users.NewRepository(conn)
	jewelerRepo := jewelers.NewRepository(conn)
	productRepo := products.NewRepository(conn)
	cartRepo := cart.NewRepository(conn)
	methodsRepo := paymentmethods.NewRepository(conn)
	orderRepo := orders.NewRepository(conn)
	designRepo := designs.NewRepository(conn)

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		UserRepo:       userRepo,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	jewelerService, err := jewelers.NewService(jewelerRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create jewelers service", err)
		os.Exit(1)
	}

	productService, err := products.NewService(productRepo, jewelerRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cartRepo, productRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	methodsService, err := paymentmethods.NewService(methodsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment methods service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orders.ServiceParams{
		Repo:        orderRepo,
		CartRepo:    cartRepo,
		MethodsRepo: methodsRepo,
		Inventory:   inventory.NewLedger(),
		Tx:          dbClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	designService, err := designs.NewService(designs.ServiceParams{
		Repo:      designRepo,
		Generator: genaiClient,
		Store:     uploads.DirStore{Dir: cfg.Uploads.DesignDir},
		Jewelers:  jewelerRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create designs service", err)
		os.Exit(1)
	}

	statsService, err := admin.NewStatsService(userRepo, productRepo, orderRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create stats service", err)
		os.Exit(1)
	}

	userDirectory, err := admin.NewUserDirectory(userRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create user directory", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics("lumine")

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
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, httpMetrics, routes.Services{
			Auth:           authService,
			Products:       productService,
			Jewelers:       jewelerService,
			Cart:           cartService,
			PaymentMethods: methodsService,
			Orders:         orderService,
			Designs:        designService,
			Stats:          statsService,
			Users:          userDirectory,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}
