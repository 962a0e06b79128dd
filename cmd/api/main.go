package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"food-ordering-api/internal/client"
	"food-ordering-api/internal/config"
	"food-ordering-api/internal/repository"
	"food-ordering-api/internal/server"
	"food-ordering-api/internal/service"
	"food-ordering-api/pkg/logger"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	db := client.InitMysqlClient(cfg.DatabaseURL)
	stripeClient := client.NewStripeClient(&cfg.Stripe)
	pushClient := client.NewExpoClient(&cfg.Expo)

	cartRepo := repository.NewCartRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	userRepo := repository.NewUserRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)

	cartService := service.NewCartService(db, cartRepo, productRepo)
	orderService := service.NewOrderService(
		db, cartRepo, orderRepo, locationRepo, notificationRepo,
		stripeClient, cfg.Stripe.Currency, log,
	)
	paymentService := service.NewPaymentService(
		db, orderRepo, cartRepo, webhookEventRepo, notificationRepo,
		stripeClient, log,
	)
	reorderService := service.NewReorderService(db, orderRepo, cartRepo, productRepo)
	productService := service.NewProductService(productRepo)
	locationService := service.NewLocationService(db, locationRepo)

	dispatcher := service.NewDispatcher(
		notificationRepo, orderRepo, userRepo, pushClient,
		cfg.Dispatcher.Interval, cfg.Dispatcher.BatchSize, log,
	)
	dispatcherCtx, stopDispatcher := context.WithCancel(context.Background())
	go dispatcher.Run(dispatcherCtx)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	srv := server.NewServer(
		cfg.JWT.Secret,
		cartService, orderService, reorderService, paymentService,
		productService, locationService, userRepo,
	)

	log.Info("starting HTTP server", "addr", serverAddr, "env", cfg.Environment.Name)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info("signal received, starting graceful shutdown")

	stopDispatcher()

	if err := srv.Shutdown(); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
