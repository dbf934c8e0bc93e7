package services

import (
	"errors"
	"fmt"

	"alice-pipeline/models"
	"alice-pipeline/utils"
)

// ErrMissingGeoID marks a malformed upstream record: a geography row
// with no key at all cannot be merged, and the run aborts rather than
// producing partial output.
var ErrMissingGeoID = errors.New("geography record missing geoID")

// MergeSummary reports how the merge went. A record without a matching
// profile is an expected steady-state outcome, counted rather than
// errored.
type MergeSummary struct {
	TotalRecords     int     `json:"total_records"`
	WithDemographics int     `json:"records_with_demographics"`
	CoveragePercent  float64 `json:"coverage_percent"`
}

// Merger attaches demographic profiles to geography records by exact
// GeoID match. It reads its inputs and produces new records; neither
// input collection is mutated.
type Merger struct {
	logger *utils.Logger
}

// NewMerger creates a Merger with the given logger.
func NewMerger(logger *utils.Logger) *Merger {
	return &Merger{logger: logger}
}

// BuildIndex indexes profiles by GeoID in input order. A duplicate key
// replaces the earlier profile in full: the defined tie-break, with no
// partial-category merging across entries.
func (m *Merger) BuildIndex(profiles []KeyedProfile) map[string]*models.DemographicProfile {
	index := make(map[string]*models.DemographicProfile, len(profiles))
	for _, kp := range profiles {
		if _, dup := index[kp.GeoID]; dup {
			m.logger.Debug("[merger] Duplicate profile for %s — keeping the later one", kp.GeoID)
		}
		index[kp.GeoID] = kp.Profile
	}
	return index
}

// Merge produces the enhanced record collection, same cardinality and
// order as the input records. It fails fast on a record without a
// GeoID, before any output exists.
func (m *Merger) Merge(records []models.GeographyRecord, index map[string]*models.DemographicProfile) ([]models.EnhancedRecord, *MergeSummary, error) {
	for i, rec := range records {
		if rec.GeoID == "" {
			return nil, nil, fmt.Errorf("record %d: %w", i, ErrMissingGeoID)
		}
	}

	enhanced := make([]models.EnhancedRecord, 0, len(records))
	summary := &MergeSummary{TotalRecords: len(records)}

	for _, rec := range records {
		er := models.EnhancedRecord{GeographyRecord: rec}
		if profile, ok := index[rec.GeoID]; ok {
			er.Demographics = profile
			summary.WithDemographics++
		}
		enhanced = append(enhanced, er)
	}

	if summary.TotalRecords > 0 {
		summary.CoveragePercent = round1(float64(summary.WithDemographics) / float64(summary.TotalRecords) * 100)
	}

	m.logger.Info("[merger] Enhanced %d of %d records (%.1f%% coverage)",
		summary.WithDemographics, summary.TotalRecords, summary.CoveragePercent)
	return enhanced, summary, nil
}
