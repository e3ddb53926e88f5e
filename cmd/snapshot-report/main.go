package main

import (
	"context"
	"errors"
	"os"
	"strconv"

	"github.com/EpicMandM/snapshot-report/internal/app"
	"github.com/EpicMandM/snapshot-report/internal/config"
	"github.com/EpicMandM/snapshot-report/internal/logger"
)

func main() {
	log := logger.New()
	if err := run(context.Background(), log); err != nil {
		log.Error("Application error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *logger.Logger) (err error) {
	envPath := getEnvOrDefault("ENV_FILE", ".env")
	cfg, err := config.LoadWithFile(envPath)
	if err != nil {
		log.Error("Failed to load infrastructure config", logger.Error(err), logger.F("path", envPath))
		return err
	}

	configPath := getEnvOrDefault("CONFIG_PATH", "./data/report.toml")
	reportCfg, err := config.LoadReportConfig(configPath)
	if err != nil {
		log.Error("Failed to load report config", logger.Error(err), logger.F("path", configPath))
		return err
	}

	application := app.New(cfg, reportCfg, log, os.Stdout)
	application.DryRun = parseBool(os.Getenv("DRY_RUN"))

	defer func() {
		if cerr := application.Close(ctx); cerr != nil {
			log.Error("Failed to close VMware service", logger.Error(cerr))
			err = errors.Join(err, cerr)
		}
	}()

	if err = application.Initialize(ctx); err != nil {
		return err
	}
	return application.Run(ctx)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseBool(s string) bool {
	b, _ := strconv.ParseBool(s)
	return b
}
