package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"alice-pipeline/config"
	"alice-pipeline/fetcher/census"
	"alice-pipeline/models"
	"alice-pipeline/scraper/tableau"
	"alice-pipeline/services"
	"alice-pipeline/storage"
	"alice-pipeline/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()
	ctx := context.Background()

	logger.Info("=== ALICE Demographic Pipeline starting ===")
	logger.Info("Config — census year: %d | fetch: %v | concurrency: %d | rate: %dms",
		cfg.CensusYear, cfg.FetchCensus, cfg.MaxConcurrency, cfg.RateLimitMs)

	// Master dataset is required; a malformed file aborts the run.
	records, err := storage.LoadGeographyRecords(cfg.MasterDBPath)
	if err != nil {
		logger.Error("Failed to load master database: %v", err)
		os.Exit(1)
	}
	logger.Info("Loaded %d geography records from %s", len(records), cfg.MasterDBPath)

	// State summaries are optional extra coverage at the state level.
	if summaries, err := storage.LoadStateSummaries(cfg.StateSummaryPath); err != nil {
		logger.Warn("State summaries unavailable: %v", err)
	} else {
		stateRecords, _ := services.StateRecords(summaries, logger)
		records = append(records, stateRecords...)
	}

	demographics := obtainDemographics(ctx, cfg, logger)

	if cfg.ScrapeTableau {
		scrapeTableau(ctx, cfg, logger)
	}

	aggregator := services.NewAggregator(logger)
	profiles, stats := aggregator.BuildProfiles(demographics.Demographics)
	if stats.Profiles == 0 {
		logger.Error("No demographic profiles could be built. Exiting.")
		os.Exit(1)
	}

	merger := services.NewMerger(logger)
	index := merger.BuildIndex(profiles)
	enhanced, summary, err := merger.Merge(records, index)
	if err != nil {
		logger.Error("Merge failed: %v", err)
		os.Exit(1)
	}

	sources := []string{
		"United Way ALICE Project",
		demographics.Source,
	}

	db := models.EnhancedDatabase{
		Metadata: models.Metadata{
			Created:                 time.Now(),
			TotalRecords:            summary.TotalRecords,
			RecordsWithDemographics: summary.WithDemographics,
			DataSources:             sources,
		},
		Data: enhanced,
	}

	if err := storage.WriteEnhanced(cfg.EnhancedOutputPath, db); err != nil {
		logger.Error("Enhanced database write failed: %v", err)
	} else {
		logger.Info("Enhanced database saved to %s", cfg.EnhancedOutputPath)
	}

	geoWriter := storage.NewGeoJSONWriter(cfg.GeoJSONOutputDir, logger)
	if err := geoWriter.WriteYearLayers(cfg.BoundariesPath, enhanced); err != nil {
		logger.Warn("GeoJSON layers skipped: %v", err)
	}

	csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath)
	if err != nil {
		logger.Error("Failed to create CSV writer: %v", err)
	} else {
		defer csvWriter.Close()
		if err := csvWriter.Write(enhanced); err != nil {
			logger.Error("CSV write failed: %v", err)
		} else {
			logger.Info("CSV export saved to %s", cfg.CSVOutputPath)
		}
	}

	reportRecords := enhanced
	pgWriter, err := storage.NewPostgresWriter(cfg.DSN())
	if err != nil {
		logger.Warn("PostgreSQL unavailable, reporting from in-memory records: %v", err)
	} else {
		defer pgWriter.Close()
		if err := pgWriter.Write(enhanced); err != nil {
			logger.Error("PostgreSQL write failed: %v", err)
		} else {
			logger.Info("Enhanced records stored in PostgreSQL (table: enhanced_records)")
		}

		if dbRecords, err := pgWriter.FetchAll(); err != nil {
			logger.Error("Failed to fetch records from DB for report: %v", err)
		} else {
			reportRecords = dbRecords
		}
	}

	reportSvc := services.NewReportService(logger)
	report := reportSvc.Generate(reportRecords, summary, sources)
	reportSvc.Print(report)

	fmt.Printf("  Done. Enhanced JSON → %s | GeoJSON → %s | CSV → %s\n\n",
		cfg.EnhancedOutputPath, cfg.GeoJSONOutputDir, cfg.CSVOutputPath)
}

// obtainDemographics either fetches fresh data from the Census API and
// caches it, or loads the cached file from a previous run.
func obtainDemographics(ctx context.Context, cfg *config.Config, logger *utils.Logger) models.DemographicsFile {
	if cfg.FetchCensus {
		fetcher := census.New(cfg, logger)
		file := fetcher.FetchAll(ctx)
		if err := storage.WriteJSON(cfg.DemographicsPath, file); err != nil {
			logger.Warn("Could not cache fetched demographics: %v", err)
		} else {
			logger.Info("Cached fetched demographics to %s", cfg.DemographicsPath)
		}
		return file
	}

	file, err := storage.LoadDemographics(cfg.DemographicsPath)
	if err != nil {
		logger.Error("Failed to load demographics (set FETCH_CENSUS=true to fetch): %v", err)
		os.Exit(1)
	}
	logger.Info("Loaded demographics for %d states from %s", len(file.Demographics), cfg.DemographicsPath)
	return file
}

// scrapeTableau runs the best-effort dashboard capture and stores
// whatever it found for offline inspection.
func scrapeTableau(ctx context.Context, cfg *config.Config, logger *utils.Logger) {
	scraper := tableau.New(cfg, logger)
	captures, err := scraper.Scrape(ctx)
	if err != nil {
		logger.Error("Tableau scrape failed: %v", err)
		return
	}
	if len(captures) == 0 {
		logger.Warn("Tableau scrape produced no captures")
		return
	}
	if err := storage.WriteJSON(cfg.TableauCapturePath, captures); err != nil {
		logger.Error("Could not save Tableau captures: %v", err)
		return
	}
	logger.Info("Saved %d Tableau captures to %s", len(captures), cfg.TableauCapturePath)
}
