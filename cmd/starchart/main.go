package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/starchart/internal/backup"
	"github.com/dukerupert/starchart/internal/config"
	"github.com/dukerupert/starchart/internal/database"
	"github.com/dukerupert/starchart/internal/logging"
	"github.com/dukerupert/starchart/internal/server"
	"github.com/dukerupert/starchart/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default ./starchart.yaml if present)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "starchart: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	now := func() time.Time { return time.Now().In(loc) }

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := store.NewSettingsStore(db).EnsurePIN(cfg.DefaultPIN); err != nil {
		return fmt.Errorf("seed parent PIN: %w", err)
	}

	backupCfg := backup.Config{
		S3: backup.S3Config{
			Endpoint:  cfg.Backup.S3Endpoint,
			Bucket:    cfg.Backup.S3Bucket,
			Region:    cfg.Backup.S3Region,
			AccessKey: cfg.Backup.S3AccessKey,
			SecretKey: cfg.Backup.S3SecretKey,
			Prefix:    cfg.Backup.S3Prefix,
		},
		Interval:      cfg.Backup.Interval,
		Passphrase:    cfg.Backup.Passphrase,
		RetentionDays: cfg.Backup.RetentionDays,
	}

	srv := server.New(db, server.Config{
		Backup:     backupCfg,
		Now:        now,
		TrustProxy: cfg.TrustProxy,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv.BackupManager().Start(ctx)
	defer srv.BackupManager().Stop()
	go srv.RateLimiter().Run(ctx, time.Minute)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("star chart running", "addr", "http://localhost:"+cfg.Port, "db", cfg.DBPath, "timezone", loc.String())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
