package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"alice-pipeline/models"
)

// CSVWriter writes enhanced records to a flat CSV export.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)

	if err := w.Write([]string{
		"geo_id", "geo_level", "year", "state", "county",
		"total_households", "poverty_households", "alice_households", "above_alice_households",
		"poverty_rate", "alice_rate", "combined_rate", "has_demographics",
	}); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// Write appends one row per enhanced record.
func (c *CSVWriter) Write(records []models.EnhancedRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range records {
		row := []string{
			r.GeoID,
			r.GeoLevel,
			strconv.Itoa(r.Year),
			r.State,
			r.County,
			strconv.Itoa(r.TotalHouseholds),
			strconv.Itoa(r.PovertyHouseholds),
			strconv.Itoa(r.AliceHouseholds),
			strconv.Itoa(r.AboveAliceHouseholds),
			strconv.FormatFloat(r.PovertyRate, 'f', 1, 64),
			strconv.FormatFloat(r.AliceRate, 'f', 1, 64),
			strconv.FormatFloat(r.CombinedRate, 'f', 1, 64),
			strconv.FormatBool(!r.Demographics.Empty()),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
