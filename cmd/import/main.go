package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/theoleuthardt/backlog-manager/internal/config"
	"github.com/theoleuthardt/backlog-manager/internal/domain"
	"github.com/theoleuthardt/backlog-manager/internal/hltb"
	"github.com/theoleuthardt/backlog-manager/internal/logger"
	"github.com/theoleuthardt/backlog-manager/internal/repository"
	"github.com/theoleuthardt/backlog-manager/internal/service"
)

// Command-line CSV importer. Runs the same reconciliation pipeline as
// the API without a progress session, for one-off bulk loads.
func main() {
	var (
		filePath       = flag.String("file", "", "Path to the CSV file to import (required)")
		userID         = flag.Int64("user", 0, "Owning user ID for created entries (required)")
		titleColumn    = flag.String("title-column", "", "Spreadsheet column holding the game title")
		genreColumn    = flag.String("genre-column", "", "Spreadsheet column holding the genre")
		platformColumn = flag.String("platform-column", "", "Spreadsheet column holding the platform")
		statusColumn   = flag.String("status-column", "", "Spreadsheet column holding the play status")
		configPath     = flag.String("config", "", "Path to config file")
	)
	flag.Parse()

	appLogger := logger.NewDefault()
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	if *filePath == "" || *userID == 0 {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	content, err := os.ReadFile(*filePath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to read CSV file")
	}

	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}

	entryRepo := repository.NewBacklogEntryRepository(db)
	entryService := service.NewEntryService(entryRepo)

	hltbClient := hltb.NewClient(&hltb.ClientConfig{
		BaseURL:       cfg.HLTB.BaseURL,
		Timeout:       time.Duration(cfg.HLTB.TimeoutSeconds) * time.Second,
		RatePerSecond: cfg.HLTB.RatePerSecond,
		RateBurst:     cfg.HLTB.RateBurst,
	})

	importService := service.NewImportService(entryService, hltbClient, service.NewSessionRegistry(), appLogger)

	columns := domain.ColumnConfig{
		TitleColumn:    fallback(*titleColumn, cfg.Import.TitleColumn),
		GenreColumn:    fallback(*genreColumn, cfg.Import.GenreColumn),
		PlatformColumn: fallback(*platformColumn, cfg.Import.PlatformColumn),
		StatusColumn:   fallback(*statusColumn, cfg.Import.StatusColumn),
	}

	report, err := importService.ImportFromCSV(context.Background(), *userID, string(content), columns, "")
	if err != nil {
		appLogger.WithError(err).Fatal("Import failed")
	}

	log := appLogger.WithFields(logger.Fields{
		"success": report.Success,
		"failed":  report.Failed,
		"missing": len(report.MissingGames),
	})
	log.Info("Import finished")

	for _, rowErr := range report.Errors {
		appLogger.WithField(logger.FieldTitle, rowErr.Title).Warn(rowErr.Error)
	}
	for _, missing := range report.MissingGames {
		appLogger.WithField(logger.FieldTitle, missing.Title).
			Warn("No lookup match, resolve manually via the API")
	}

	if report.Failed > 0 {
		os.Exit(1)
	}
}

func fallback(value, def string) string {
	if value != "" {
		return value
	}
	return def
}
