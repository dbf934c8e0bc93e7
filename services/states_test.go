package services

import (
	"testing"

	"alice-pipeline/models"
)

func TestStateRecords(t *testing.T) {
	summaries := []models.StateSummary{
		{State: "Florida", Year: 2023, PovertyRate: 13, AliceRate: 33, CombinedRate: 46},
		{State: "Puerto Rico", Year: 2023, PovertyRate: 40, AliceRate: 20, CombinedRate: 60},
		{State: "texas", Year: 2023, PovertyRate: 14, AliceRate: 31, CombinedRate: 45},
	}

	records, skipped := StateRecords(summaries, newTestLogger())

	if skipped != 1 {
		t.Errorf("skipped = %d; want 1 (unknown state name)", skipped)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d; want 2", len(records))
	}

	if records[0].GeoID != "12" {
		t.Errorf("Florida geoID = %q; want \"12\"", records[0].GeoID)
	}
	if records[0].GeoLevel != models.GeoLevelState {
		t.Errorf("geoLevel = %q; want %q", records[0].GeoLevel, models.GeoLevelState)
	}
	if records[0].CombinedRate != 46 {
		t.Errorf("combinedRate = %.1f; want 46", records[0].CombinedRate)
	}
	if records[1].GeoID != "48" {
		t.Errorf("texas geoID = %q; want \"48\"", records[1].GeoID)
	}
}
