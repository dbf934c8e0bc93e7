package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"alice-pipeline/models"
)

// LoadGeographyRecords reads the master dataset from disk. A file that
// is not a JSON array of records is a structural error: no partial
// progress is meaningful, so the caller aborts.
func LoadGeographyRecords(path string) ([]models.GeographyRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read master database %q: %w", path, err)
	}

	var records []models.GeographyRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("master database %q is not a JSON array of records: %w", path, err)
	}
	return records, nil
}

// LoadDemographics reads a cached Census demographics file.
func LoadDemographics(path string) (models.DemographicsFile, error) {
	var file models.DemographicsFile

	data, err := os.ReadFile(path)
	if err != nil {
		return file, fmt.Errorf("read demographics %q: %w", path, err)
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return file, fmt.Errorf("demographics %q is malformed: %w", path, err)
	}
	return file, nil
}

// LoadStateSummaries reads the national-report state summary file.
func LoadStateSummaries(path string) ([]models.StateSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read state summaries %q: %w", path, err)
	}

	var summaries []models.StateSummary
	if err := json.Unmarshal(data, &summaries); err != nil {
		return nil, fmt.Errorf("state summaries %q is not a JSON array: %w", path, err)
	}
	return summaries, nil
}

// WriteEnhanced serializes the enhanced database document, creating
// intermediate directories as needed.
func WriteEnhanced(path string, db models.EnhancedDatabase) error {
	return WriteJSON(path, db)
}

// WriteJSON writes any value as indented JSON at path.
func WriteJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("json: create output dir: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("json: marshal %q: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("json: write %q: %w", path, err)
	}
	return nil
}
