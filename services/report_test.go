package services

import (
	"testing"

	"alice-pipeline/models"
)

func TestReportGenerate(t *testing.T) {
	s := NewReportService(newTestLogger())

	records := []models.EnhancedRecord{
		{GeographyRecord: models.GeographyRecord{GeoID: "12", GeoLevel: "state", CombinedRate: 46}},
		{GeographyRecord: models.GeographyRecord{GeoID: "12057", GeoLevel: "county", CombinedRate: 52}},
		{GeographyRecord: models.GeographyRecord{GeoID: "12086", GeoLevel: "county", CombinedRate: 40}},
		{GeographyRecord: models.GeographyRecord{GeoID: "12099", GeoLevel: "county"}}, // no rate
	}
	summary := &MergeSummary{TotalRecords: 4, WithDemographics: 3, CoveragePercent: 75.0}

	report := s.Generate(records, summary, []string{"United Way ALICE Project"})

	if report.TotalRecords != 4 || report.WithDemographics != 3 {
		t.Errorf("counts = %d/%d; want 4/3", report.TotalRecords, report.WithDemographics)
	}
	if report.CoveragePercent != 75.0 {
		t.Errorf("coverage = %.1f; want 75.0", report.CoveragePercent)
	}
	if report.RecordsByLevel["county"] != 3 || report.RecordsByLevel["state"] != 1 {
		t.Errorf("records by level = %v; want 3 county, 1 state", report.RecordsByLevel)
	}
	if report.MaxCombinedRate != 52 {
		t.Errorf("max combined = %.1f; want 52", report.MaxCombinedRate)
	}
	if report.MinCombinedRate != 40 {
		t.Errorf("min combined = %.1f; want 40", report.MinCombinedRate)
	}
	if report.AvgCombinedRate != 46.0 {
		t.Errorf("avg combined = %.1f; want 46.0", report.AvgCombinedRate)
	}
	if len(report.HardestHit) != 3 {
		t.Fatalf("hardest hit = %d records; want 3 (zero-rate excluded)", len(report.HardestHit))
	}
	if report.HardestHit[0].GeoID != "12057" {
		t.Errorf("hardest hit = %s; want 12057", report.HardestHit[0].GeoID)
	}
}

func TestReportGenerateEmpty(t *testing.T) {
	s := NewReportService(newTestLogger())

	report := s.Generate(nil, &MergeSummary{}, nil)
	if report.TotalRecords != 0 || len(report.HardestHit) != 0 {
		t.Error("empty input should produce an empty report")
	}
}
