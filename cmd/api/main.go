package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"surplus-marketplace/internal/client"
	"surplus-marketplace/internal/clock"
	"surplus-marketplace/internal/config"
	"surplus-marketplace/internal/handler"
	"surplus-marketplace/internal/repository"
	"surplus-marketplace/internal/server"
	"surplus-marketplace/internal/service"

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

	log.Printf("Environment: %s (log level %s, format %s)",
		cfg.Environment.Name, cfg.Log.Level, cfg.Log.Format)
	if cfg.BaseURL != "" {
		log.Println("Public base URL:", cfg.BaseURL)
	}

	db := client.InitDB(cfg.DatabaseURL)

	paymentClient := client.NewRazorpayClient(&cfg.Razorpay)
	if paymentClient == nil {
		log.Println("WARNING: Razorpay keys missing. Payment integration will not work.")
	}

	clk := clock.NewSystem()

	userRepo := repository.NewUserRepository(db)
	vendorRepo := repository.NewVendorRepository(db)
	listingRepo := repository.NewListingRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	authService := service.NewAuthService(userRepo, vendorRepo, cfg.JWTSecret)
	listingService := service.NewListingService(listingRepo, clk)
	orderService := service.NewOrderService(db, paymentClient, listingRepo, orderRepo, userRepo, clk)
	pickupService := service.NewPickupService(orderRepo)
	adminService := service.NewAdminService(userRepo, vendorRepo, listingRepo, orderRepo)
	userService := service.NewUserService(userRepo, listingRepo)

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()

	sweeper := service.NewSweeper(listingRepo, clk, cfg.SweepInterval)
	sweeper.Start(sweepCtx)

	srv := server.NewServer(server.Deps{
		JWTSecret:      cfg.JWTSecret,
		UploadDir:      cfg.UploadDir,
		UserRepo:       userRepo,
		VendorRepo:     vendorRepo,
		AuthHandler:    handler.NewAuthHandler(authService),
		ListingHandler: handler.NewListingHandler(listingService, cfg.UploadDir),
		OrderHandler:   handler.NewOrderHandler(orderService),
		VendorHandler:  handler.NewVendorHandler(orderService, pickupService, listingService),
		AdminHandler:   handler.NewAdminHandler(adminService),
		UserHandler:    handler.NewUserHandler(userService),
	})

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	log.Println("Starting HTTP server on", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Println("Signal received, starting graceful shutdown...")

	stopSweeper()

	_, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(); err != nil {
		log.Fatal("HTTP server shutdown error")
	}
}
