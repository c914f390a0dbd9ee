package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopnest/shopnest-be/internal/api"
	"github.com/shopnest/shopnest-be/internal/auth"
	"github.com/shopnest/shopnest-be/internal/config"
	"github.com/shopnest/shopnest-be/internal/database"
	"github.com/shopnest/shopnest-be/internal/logger"
	"github.com/shopnest/shopnest-be/internal/services"
	"github.com/shopnest/shopnest-be/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Set up database
	db, err := database.New(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Client().Disconnect(context.Background())

	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("Failed to create database indexes")
	}

	// Set up object storage
	uploader, err := storage.New(ctx, cfg.S3)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize object storage")
	}

	// Set up services
	tokens := auth.NewTokenManager(cfg.Token)
	userService := services.NewUserService(db, tokens)
	shopService := services.NewShopService(db)
	productService := services.NewProductService(db)
	categoryService := services.NewCategoryService(db)
	orderService := services.NewOrderService(db)

	// Set up router
	router := api.NewRouter(cfg, tokens, userService, shopService, productService, categoryService, orderService, uploader)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.Port).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
