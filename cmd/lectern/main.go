package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mkaschner/lectern/internal/api"
	"github.com/mkaschner/lectern/internal/auth"
	"github.com/mkaschner/lectern/internal/backup"
	"github.com/mkaschner/lectern/internal/config"
	"github.com/mkaschner/lectern/internal/database"
	"github.com/mkaschner/lectern/internal/event"
	"github.com/mkaschner/lectern/internal/history"
	"github.com/mkaschner/lectern/internal/logging"
	"github.com/mkaschner/lectern/internal/notify"
	"github.com/mkaschner/lectern/internal/readarr"
	"github.com/mkaschner/lectern/internal/request"
	"github.com/mkaschner/lectern/internal/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	configPath := os.Getenv("LECTERN_CONFIG_PATH")
	if configPath == "" {
		configPath = "/data/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Set up structured logging
	logger, logCloser := logging.New(logging.Config{
		Level:    cfg.Logging.Level,
		Format:   cfg.Logging.Format,
		FilePath: cfg.Logging.FilePath,
	})
	if logCloser != nil {
		defer logCloser.Close() //nolint:errcheck
	}
	slog.SetDefault(logger)

	// Open database
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("closing database", "error", err)
		}
	}()

	// Run migrations
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	logger.Info("database ready", slog.String("path", cfg.Database.Path))

	// Initialize event bus
	eventBus := event.NewBus(logger, 64)
	go eventBus.Start()
	defer eventBus.Stop()

	// Initialize services
	authService := auth.NewService(db, cfg.Auth.Users, logger)
	historyService := history.NewService(db, logger)
	readarrClient := readarr.New(cfg.Readarr, logger)
	requestService := request.NewService(readarrClient, eventBus, logger)

	// Post-add side-flow: refresh the author and trigger a search for any
	// books still missing files.
	sideFlow := request.NewSideFlow(readarrClient, logger)
	eventBus.Subscribe(event.BookAdded, sideFlow.HandleEvent)

	// Outbound webhook notifications
	if len(cfg.Notify.Webhooks) > 0 {
		dispatcher := notify.NewDispatcher(cfg.Notify.Webhooks, logger)
		eventBus.Subscribe(event.BookAdded, dispatcher.HandleEvent)
		eventBus.Subscribe(event.BookAddFailed, dispatcher.HandleEvent)
	}

	logger.Info("starting lectern",
		slog.String("version", version.Version),
		slog.String("commit", version.Commit),
		slog.String("readarr", cfg.Readarr.URL),
	)

	// Set up HTTP router
	router := api.NewRouter(api.RouterDeps{
		AuthService:    authService,
		RequestService: requestService,
		HistoryService: historyService,
		Readarr:        readarrClient,
		Logger:         logger,
		BasePath:       cfg.Server.BasePath,
		MountPath:      cfg.Library.MountPath,
	})

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Create HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start backup scheduler
	if cfg.Backup.Enabled {
		backupDir := cfg.Backup.Path
		if backupDir == "" {
			backupDir = filepath.Join(filepath.Dir(cfg.Database.Path), "backups")
		}
		backupService := backup.NewService(db, backupDir, cfg.Backup.RetentionCount, logger)
		go backupService.StartScheduler(ctx, time.Duration(cfg.Backup.IntervalHours)*time.Hour)
	}

	// Start session cleanup goroutine
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := authService.CleanExpiredSessions(ctx); err != nil {
					logger.Error("session cleanup failed", "error", err)
				}
			}
		}
	}()

	go func() {
		logger.Info("server starting", slog.String("addr", addr), slog.String("base_path", cfg.Server.BasePath))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
