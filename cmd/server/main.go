package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rotorops/fleetboard/internal/config"
	"github.com/rotorops/fleetboard/internal/db"
	"github.com/rotorops/fleetboard/internal/history"
	httpapi "github.com/rotorops/fleetboard/internal/http"
	"github.com/rotorops/fleetboard/internal/publish"
	"github.com/rotorops/fleetboard/internal/service"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "fleetboard").Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var store *db.Store
	if cfg.DatabaseURL != "" {
		store, err = db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect db")
		}
		defer store.Close()
		if err := store.EnsureSchema(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to ensure schema")
		}
	} else {
		logger.Info().Msg("run archive disabled, set DATABASE_URL to enable")
	}

	var publisher publish.Publisher
	if cfg.PublishDriver == "s3" {
		publisher, err = publish.NewS3(ctx, publish.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			PathStyle:       cfg.S3PathStyle,
			Prefix:          cfg.S3Prefix,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure s3 publisher")
		}
	}

	rules := service.DefaultRules()
	if cfg.RulesPath != "" {
		rules, err = config.LoadRules(cfg.RulesPath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", cfg.RulesPath).Msg("failed to load rules")
		}
	}

	pipeline := &service.Pipeline{
		Builder: &service.Builder{
			DailyCSV:  cfg.DailyCSV,
			WeeklyCSV: cfg.WeeklyCSV,
			History:   &history.Store{Path: cfg.HistoryPath, Logger: logger},
			Rules:     rules,
			Thresholds: service.Thresholds{
				CriticalDays:   cfg.CriticalDays,
				ComingDueDays:  cfg.ComingDueDays,
				CriticalHours:  cfg.CriticalHours,
				ComingDueHours: cfg.ComingDueHours,
			},
			FleetName:       cfg.FleetName,
			ComponentWindow: cfg.ComponentWindowHours,
			Logger:          logger,
		},
		ReportPath:   cfg.ReportPath,
		DueSheetPath: cfg.DueSheetPath,
		Archive:      store,
		Publisher:    publisher,
		Logger:       logger,
	}

	rf := &service.Refresher{Build: pipeline.Run, Logger: logger}
	if _, err := rf.Refresh(ctx); err != nil {
		logger.Warn().Err(err).Msg("initial build failed, serving 503 until a refresh succeeds")
	}
	if cfg.RefreshInterval > 0 {
		logger.Info().Dur("interval", cfg.RefreshInterval).Msg("scheduled refresh enabled")
		go rf.RunPeriodic(ctx, cfg.RefreshInterval)
	}

	router := httpapi.Router(cfg, rf, store, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}
