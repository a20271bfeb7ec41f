package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rotorops/fleetboard/internal/config"
	"github.com/rotorops/fleetboard/internal/db"
	"github.com/rotorops/fleetboard/internal/history"
	"github.com/rotorops/fleetboard/internal/publish"
	"github.com/rotorops/fleetboard/internal/service"
)

func main() {
	envFile := flag.String("config", "", "Path to .env config file")
	daily := flag.String("daily", "", "Daily due list CSV, overrides DAILY_CSV")
	weekly := flag.String("weekly", "", "Weekly due list CSV, overrides WEEKLY_CSV")
	out := flag.String("out", "", "Report output path, overrides REPORT_PATH")
	dueSheet := flag.String("due-sheet", "", "Due sheet PDF path, overrides DUE_SHEET_PATH")
	asOf := flag.String("as-of", "", "Pin the build clock (YYYY-MM-DD or RFC3339)")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		exitWithError(err)
	}
	if *daily != "" {
		cfg.DailyCSV = *daily
	}
	if *weekly != "" {
		cfg.WeeklyCSV = *weekly
	}
	if *out != "" {
		cfg.ReportPath = *out
	}
	if *dueSheet != "" {
		cfg.DueSheetPath = *dueSheet
	}

	now := time.Now
	if *asOf != "" {
		t, err := parseAsOf(*asOf)
		if err != nil {
			exitWithError(fmt.Errorf("invalid -as-of date: %w", err))
		}
		now = func() time.Time { return t }
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "fleetboard-build").Logger()

	ctx := context.Background()

	var store *db.Store
	if cfg.DatabaseURL != "" {
		store, err = db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			exitWithError(err)
		}
		defer store.Close()
		if err := store.EnsureSchema(ctx); err != nil {
			exitWithError(err)
		}
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
			exitWithError(err)
		}
	}

	rules := service.DefaultRules()
	if cfg.RulesPath != "" {
		rules, err = config.LoadRules(cfg.RulesPath)
		if err != nil {
			exitWithError(err)
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
			Now:             now,
		},
		ReportPath:   cfg.ReportPath,
		DueSheetPath: cfg.DueSheetPath,
		Archive:      store,
		Publisher:    publisher,
		Logger:       logger,
	}

	rep, err := pipeline.Run(ctx)
	if err != nil {
		exitWithError(err)
	}
	logger.Info().
		Str("run_id", rep.Meta.RunID).
		Int("aircraft", rep.Meta.AircraftCount).
		Str("path", cfg.ReportPath).
		Msg("build finished")
}

func parseAsOf(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
