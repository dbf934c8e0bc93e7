package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"alice-pipeline/geo"
	"alice-pipeline/models"
	"alice-pipeline/utils"
)

// GeoJSONWriter joins enhanced county records onto a county-boundary
// feature collection and writes one ArcGIS-ready layer per year.
type GeoJSONWriter struct {
	logger *utils.Logger
	outDir string
}

// NewGeoJSONWriter creates a writer emitting into outDir.
func NewGeoJSONWriter(outDir string, logger *utils.Logger) *GeoJSONWriter {
	return &GeoJSONWriter{logger: logger, outDir: outDir}
}

// WriteYearLayers reads the boundary file, joins county records by
// padded state+county FIPS, and writes alice_counties_<year>.geojson
// per year plus a master copy of the most recent year. Boundary
// features with no matching record are counted, not errors.
func (w *GeoJSONWriter) WriteYearLayers(boundariesPath string, records []models.EnhancedRecord) error {
	boundaries, err := loadBoundaries(boundariesPath)
	if err != nil {
		return err
	}

	// Index county records by fips_year; state records have no shapes here.
	lookup := make(map[string]*models.EnhancedRecord)
	yearSet := map[int]struct{}{}
	for i := range records {
		r := &records[i]
		if r.GeoLevel != models.GeoLevelCounty {
			continue
		}
		lookup[fmt.Sprintf("%s_%d", r.GeoID, r.Year)] = r
		yearSet[r.Year] = struct{}{}
	}

	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)

	if len(years) == 0 {
		w.logger.Warn("[geojson] No county-level records — nothing to write")
		return nil
	}
	w.logger.Info("[geojson] Found data for years: %v", years)

	if err := os.MkdirAll(w.outDir, 0755); err != nil {
		return fmt.Errorf("geojson: create output dir: %w", err)
	}

	for _, year := range years {
		collection := models.NewCollection(fmt.Sprintf("ALICE_Counties_%d", year))
		matched, unmatched := 0, 0

		for _, bf := range boundaries.Features {
			fips, ok := boundaryFIPS(bf)
			if !ok {
				unmatched++
				continue
			}

			record, ok := lookup[fmt.Sprintf("%s_%d", fips, year)]
			if !ok {
				unmatched++
				continue
			}
			matched++

			collection.Features = append(collection.Features, models.Feature{
				Type:       "Feature",
				Geometry:   bf.Geometry,
				Properties: featureProperties(fips, record),
			})
		}

		path := filepath.Join(w.outDir, fmt.Sprintf("alice_counties_%d.geojson", year))
		if err := writeCollection(path, collection); err != nil {
			return err
		}
		w.logger.Info("[geojson] %s — matched %d counties, unmatched %d", path, matched, unmatched)
	}

	// Master layer carries the most recent year.
	latest := years[len(years)-1]
	src := filepath.Join(w.outDir, fmt.Sprintf("alice_counties_%d.geojson", latest))
	master, err := loadBoundaries(src)
	if err != nil {
		return err
	}
	master.Name = "ALICE_Counties_Master"
	return writeCollection(filepath.Join(w.outDir, "alice_counties_master.geojson"), master)
}

// boundaryFIPS extracts the padded 5-digit FIPS key from a boundary
// feature's STATE/COUNTY properties.
func boundaryFIPS(f models.Feature) (string, bool) {
	state, _ := f.Properties["STATE"].(string)
	county, _ := f.Properties["COUNTY"].(string)
	if state == "" || county == "" {
		return "", false
	}
	fips, err := geo.CountyKey(state, county)
	if err != nil {
		return "", false
	}
	return fips, true
}

func featureProperties(fips string, r *models.EnhancedRecord) map[string]any {
	props := map[string]any{
		"GEOID":     fips,
		"NAME":      r.County,
		"STATE":     r.State,
		"GEO_LABEL": r.GeoDisplayLabel,

		"YEAR":        r.Year,
		"TOTAL_HH":    r.TotalHouseholds,
		"POVERTY_HH":  r.PovertyHouseholds,
		"ALICE_HH":    r.AliceHouseholds,
		"ABOVE_HH":    r.AboveAliceHouseholds,
		"POVERTY_RT":  r.PovertyRate,
		"ALICE_RT":    r.AliceRate,
		"COMBINED_RT": r.CombinedRate,

		"STRUGGLING_HH":  r.PovertyHouseholds + r.AliceHouseholds,
		"STRUGGLING_PCT": r.CombinedRate,

		"DATA_SOURCE": r.DataSource,
		"UPDATED":     time.Now().Format(time.RFC3339),
	}

	if !r.Demographics.Empty() {
		props["DEMOGRAPHICS"] = r.Demographics
	}
	return props
}

func loadBoundaries(path string) (*models.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("geojson: read %q: %w", path, err)
	}

	var fc models.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("geojson: %q is not a feature collection: %w", path, err)
	}
	return &fc, nil
}

func writeCollection(path string, fc *models.FeatureCollection) error {
	data, err := json.Marshal(fc)
	if err != nil {
		return fmt.Errorf("geojson: marshal %q: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("geojson: write %q: %w", path, err)
	}
	return nil
}
