package services

import (
	"alice-pipeline/geo"
	"alice-pipeline/models"
	"alice-pipeline/utils"
)

// StateRecords converts national-report state summaries, which are
// keyed by state name, into state-level geography records keyed by
// FIPS. Rows whose name the normalizer cannot resolve are skipped and
// counted; a bad name never becomes a malformed join key.
func StateRecords(summaries []models.StateSummary, logger *utils.Logger) ([]models.GeographyRecord, int) {
	records := make([]models.GeographyRecord, 0, len(summaries))
	skipped := 0

	for _, s := range summaries {
		fips, err := geo.StateFIPS(s.State)
		if err != nil {
			skipped++
			logger.Warn("[states] Skipping summary row: %v", err)
			continue
		}

		records = append(records, models.GeographyRecord{
			GeoID:           fips,
			GeoLevel:        models.GeoLevelState,
			Year:            s.Year,
			State:           s.State,
			GeoDisplayLabel: s.State,
			PovertyRate:     s.PovertyRate,
			AliceRate:       s.AliceRate,
			CombinedRate:    s.CombinedRate,
			DataSource:      s.Source,
		})
	}

	if skipped > 0 {
		logger.Warn("[states] Converted %d summaries, skipped %d with unknown state names",
			len(records), skipped)
	} else {
		logger.Info("[states] Converted %d state summaries", len(records))
	}
	return records, skipped
}
