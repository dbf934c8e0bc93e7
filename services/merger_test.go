package services

import (
	"errors"
	"fmt"
	"testing"

	"alice-pipeline/models"
)

func countyRecord(geoID string) models.GeographyRecord {
	return models.GeographyRecord{GeoID: geoID, GeoLevel: models.GeoLevelCounty, Year: 2023}
}

func profileWith(hispanic float64) *models.DemographicProfile {
	return &models.DemographicProfile{RaceEthnicity: map[string]float64{"Hispanic": hispanic}}
}

func TestMergePreservesLengthAndOrder(t *testing.T) {
	m := NewMerger(newTestLogger())

	for _, size := range []int{0, 1, 7} {
		records := make([]models.GeographyRecord, 0, size)
		for i := 0; i < size; i++ {
			records = append(records, countyRecord(fmt.Sprintf("12%03d", i)))
		}

		enhanced, summary, err := m.Merge(records, map[string]*models.DemographicProfile{})
		if err != nil {
			t.Fatalf("size %d: unexpected error: %v", size, err)
		}
		if len(enhanced) != size {
			t.Errorf("size %d: output length = %d; want %d", size, len(enhanced), size)
		}
		if summary.TotalRecords != size {
			t.Errorf("size %d: summary total = %d; want %d", size, summary.TotalRecords, size)
		}
		for i, er := range enhanced {
			if er.GeoID != records[i].GeoID {
				t.Errorf("size %d: record %d out of order: got %s want %s",
					size, i, er.GeoID, records[i].GeoID)
			}
		}
	}
}

func TestMergeCoveragePercent(t *testing.T) {
	m := NewMerger(newTestLogger())

	records := make([]models.GeographyRecord, 0, 10)
	index := make(map[string]*models.DemographicProfile)
	for i := 0; i < 10; i++ {
		geoID := fmt.Sprintf("12%03d", i)
		records = append(records, countyRecord(geoID))
		if i < 6 {
			index[geoID] = profileWith(float64(i))
		}
	}

	_, summary, err := m.Merge(records, index)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.WithDemographics != 6 {
		t.Errorf("with demographics = %d; want 6", summary.WithDemographics)
	}
	if summary.CoveragePercent != 60.0 {
		t.Errorf("coverage = %.1f; want 60.0", summary.CoveragePercent)
	}
}

func TestMergeMissingMatchIsNotAnError(t *testing.T) {
	m := NewMerger(newTestLogger())

	enhanced, summary, err := m.Merge(
		[]models.GeographyRecord{countyRecord("12057")},
		map[string]*models.DemographicProfile{"48453": profileWith(30)},
	)
	if err != nil {
		t.Fatalf("missing match should not error: %v", err)
	}
	if enhanced[0].Demographics != nil {
		t.Error("unmatched record should carry nil demographics")
	}
	if summary.WithDemographics != 0 {
		t.Errorf("with demographics = %d; want 0", summary.WithDemographics)
	}
}

func TestBuildIndexDuplicateLastWriteWins(t *testing.T) {
	m := NewMerger(newTestLogger())

	first := profileWith(10)
	first.AgeGroups = map[string]float64{"Under 25": 30}
	second := profileWith(20)

	index := m.BuildIndex([]KeyedProfile{
		{GeoID: "12057", Profile: first},
		{GeoID: "12057", Profile: second},
	})

	got := index["12057"]
	if got != second {
		t.Fatal("expected the later profile to win in full")
	}
	// No partial-category merge: the first profile's age groups must not leak in.
	if got.AgeGroups != nil {
		t.Error("winning profile should not inherit categories from the replaced one")
	}
	if got.RaceEthnicity["Hispanic"] != 20 {
		t.Errorf("Hispanic = %.1f; want 20", got.RaceEthnicity["Hispanic"])
	}
}

func TestMergeMissingGeoIDFailsFast(t *testing.T) {
	m := NewMerger(newTestLogger())

	records := []models.GeographyRecord{
		countyRecord("12057"),
		{GeoLevel: models.GeoLevelCounty, Year: 2023}, // no geoID
	}

	enhanced, summary, err := m.Merge(records, map[string]*models.DemographicProfile{})
	if err == nil {
		t.Fatal("expected error for record without geoID")
	}
	if !errors.Is(err, ErrMissingGeoID) {
		t.Errorf("error = %v; want ErrMissingGeoID", err)
	}
	if enhanced != nil || summary != nil {
		t.Error("no partial output should be produced on malformed input")
	}
}
