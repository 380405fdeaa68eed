package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/lotview/lotview/internal/config"
	"github.com/lotview/lotview/internal/listings"
	"github.com/lotview/lotview/internal/pipeline"
	"github.com/lotview/lotview/internal/server"
	"github.com/lotview/lotview/internal/services"
	"github.com/lotview/lotview/internal/store"
	"github.com/lotview/lotview/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		return
	}

	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("LotView server starting", zap.String("version", version.Short()))

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	db, err := store.New(cfg.GetString("storage.path"))
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, err := services.NewSQLiteListingRepository(ctx, db)
	if err != nil {
		logger.Fatal("failed to initialize listing repository", zap.Error(err))
	}
	if err := services.SeedIfEmpty(ctx, repo, logger); err != nil {
		logger.Fatal("failed to seed listings", zap.Error(err))
	}

	// Tier thresholds and paging defaults come from one place so no call
	// site can drift from another.
	engine := pipeline.NewEngine(pipeline.NewClassifier(pipeline.TierThresholds{
		TopPickMin: cfg.GetInt("listings.tier.top_pick_min"),
		GoodBuyMin: cfg.GetInt("listings.tier.good_buy_min"),
	}))
	defaults := listings.Defaults{
		PageSize:        cfg.GetInt("listings.page_size"),
		PageSizeMax:     cfg.GetInt("listings.page_size_max"),
		MaxVisiblePages: cfg.GetInt("listings.max_visible_pages"),
	}

	addr := cfg.GetString("server.host") + ":" + cfg.GetString("server.port")
	srv := server.New(addr, logger)
	listings.NewHandler(repo, engine, defaults, logger).RegisterRoutes(srv.Mux())

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	logger.Info("LotView server ready", zap.String("addr", addr))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("LotView server stopped")
}
