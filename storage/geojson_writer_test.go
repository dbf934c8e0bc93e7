package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"alice-pipeline/models"
	"alice-pipeline/utils"
)

const testBoundaries = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"properties": {"STATE": "12", "COUNTY": "057"},
			"geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,0]]]}
		},
		{
			"type": "Feature",
			"properties": {"STATE": "12", "COUNTY": "086"},
			"geometry": {"type": "Polygon", "coordinates": [[[2,2],[3,2],[3,3],[2,2]]]}
		}
	]
}`

func TestWriteYearLayers(t *testing.T) {
	dir := t.TempDir()
	boundariesPath := filepath.Join(dir, "counties.json")
	if err := os.WriteFile(boundariesPath, []byte(testBoundaries), 0644); err != nil {
		t.Fatal(err)
	}

	records := []models.EnhancedRecord{
		{
			GeographyRecord: models.GeographyRecord{
				GeoID: "12057", GeoLevel: "county", Year: 2023,
				County: "Hillsborough", State: "Florida", CombinedRate: 46.0,
			},
			Demographics: &models.DemographicProfile{
				AgeGroups: map[string]float64{"Under 25": 29.1},
			},
		},
		// State record carries no boundary shape.
		{GeographyRecord: models.GeographyRecord{GeoID: "12", GeoLevel: "state", Year: 2023}},
	}

	outDir := filepath.Join(dir, "features")
	w := NewGeoJSONWriter(outDir, utils.NewLogger())
	if err := w.WriteYearLayers(boundariesPath, records); err != nil {
		t.Fatalf("WriteYearLayers failed: %v", err)
	}

	for _, name := range []string{"alice_counties_2023.geojson", "alice_counties_master.geojson"} {
		data, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			t.Fatalf("expected output %s: %v", name, err)
		}

		var fc models.FeatureCollection
		if err := json.Unmarshal(data, &fc); err != nil {
			t.Fatalf("%s is not valid GeoJSON: %v", name, err)
		}
		if len(fc.Features) != 1 {
			t.Fatalf("%s: features = %d; want 1 matched county", name, len(fc.Features))
		}

		props := fc.Features[0].Properties
		if props["GEOID"] != "12057" {
			t.Errorf("%s: GEOID = %v; want 12057", name, props["GEOID"])
		}
		if props["COMBINED_RT"] != 46.0 {
			t.Errorf("%s: COMBINED_RT = %v; want 46", name, props["COMBINED_RT"])
		}
		if _, ok := props["DEMOGRAPHICS"]; !ok {
			t.Errorf("%s: merged demographics missing from properties", name)
		}
	}
}

func TestWriteYearLayersNoCountyRecords(t *testing.T) {
	dir := t.TempDir()
	boundariesPath := filepath.Join(dir, "counties.json")
	if err := os.WriteFile(boundariesPath, []byte(testBoundaries), 0644); err != nil {
		t.Fatal(err)
	}

	w := NewGeoJSONWriter(filepath.Join(dir, "features"), utils.NewLogger())
	records := []models.EnhancedRecord{
		{GeographyRecord: models.GeographyRecord{GeoID: "12", GeoLevel: "state", Year: 2023}},
	}
	if err := w.WriteYearLayers(boundariesPath, records); err != nil {
		t.Errorf("state-only input should be a no-op, got error: %v", err)
	}
}
