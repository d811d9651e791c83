package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dugoutapp/dugout/internal/clients/llm"
	"github.com/dugoutapp/dugout/internal/clients/oddsapi"
	"github.com/dugoutapp/dugout/internal/config"
	"github.com/dugoutapp/dugout/internal/ledger"
	"github.com/dugoutapp/dugout/internal/reliability"
	"github.com/dugoutapp/dugout/internal/scheduler"
	"github.com/dugoutapp/dugout/internal/server"
	"github.com/dugoutapp/dugout/internal/storage"
	"github.com/dugoutapp/dugout/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(logger.Config{Level: "info", Pretty: true})
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Str("data_dir", cfg.DataDir).Msg("Starting Dugout")

	// Open the store; partial state is tolerated, a fresh directory starts
	// empty.
	store, err := storage.Open(cfg.DataDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open data directory")
	}

	svc := ledger.New(store, ledger.ParseResettleMode(cfg.ResettleMode), log)

	// Optional upstream clients
	var oddsClient *oddsapi.Client
	if cfg.OddsAPIKey != "" {
		oddsClient = oddsapi.NewClient(cfg.OddsBaseURL, cfg.OddsAPIKey, log)
	}

	var llmClient *llm.Client
	if cfg.LLMAPIKey != "" {
		llmClient = llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, log)
	}

	backups := reliability.NewBackupService(cfg.DataDir, cfg.BackupDir, cfg.BackupRetain, log)

	// Initialize scheduler and register background jobs
	sched := scheduler.New(log)

	var refreshJob *scheduler.RefreshJob
	if oddsClient != nil {
		var picks scheduler.PickSource
		if llmClient != nil {
			picks = llmClient
		}
		refreshJob = scheduler.NewRefreshJob(svc, oddsClient, picks, log)
		if cfg.RefreshCron != "" {
			if err := sched.AddJob(cfg.RefreshCron, refreshJob); err != nil {
				log.Fatal().Err(err).Msg("Failed to register refresh job")
			}
		}
	} else {
		log.Warn().Msg("No odds API key configured, refresh disabled")
	}

	if cfg.BackupCron != "" {
		if err := sched.AddJob(cfg.BackupCron, scheduler.NewBackupJob(backups, log)); err != nil {
			log.Fatal().Err(err).Msg("Failed to register backup job")
		}
	}

	sched.Start()
	defer sched.Stop()

	// Initialize HTTP server
	srvCfg := server.Config{
		Log:     log,
		Cfg:     cfg,
		Ledger:  svc,
		Backups: backups,
	}
	if llmClient != nil {
		srvCfg.Picks = llmClient
	}

	srv := server.New(srvCfg)
	if refreshJob != nil {
		srv.SetRefreshJob(refreshJob)
	}

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
