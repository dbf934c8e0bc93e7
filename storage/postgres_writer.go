package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"alice-pipeline/models"
)

// PostgresWriter persists enhanced records to PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS enhanced_records (
			id           SERIAL PRIMARY KEY,
			geo_id       VARCHAR(5)  NOT NULL,
			geo_level    VARCHAR(10) NOT NULL,
			year         INTEGER     NOT NULL,
			state        TEXT        NOT NULL DEFAULT '',
			county       TEXT        NOT NULL DEFAULT '',
			total_hh     INTEGER     NOT NULL DEFAULT 0,
			poverty_hh   INTEGER     NOT NULL DEFAULT 0,
			alice_hh     INTEGER     NOT NULL DEFAULT 0,
			above_hh     INTEGER     NOT NULL DEFAULT 0,
			poverty_rate NUMERIC(5,1) NOT NULL DEFAULT 0,
			alice_rate   NUMERIC(5,1) NOT NULL DEFAULT 0,
			combined_rate NUMERIC(5,1) NOT NULL DEFAULT 0,
			demographics JSONB,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (geo_id, year)
		);

		CREATE INDEX IF NOT EXISTS idx_enhanced_geo_level ON enhanced_records(geo_level);
		CREATE INDEX IF NOT EXISTS idx_enhanced_year      ON enhanced_records(year);
		CREATE INDEX IF NOT EXISTS idx_enhanced_combined  ON enhanced_records(combined_rate);
	`)
	return err
}

// Clear deletes all existing records from the table.
func (pw *PostgresWriter) Clear() error {
	_, err := pw.db.Exec("DELETE FROM enhanced_records")
	if err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write batch-inserts ALL enhanced records, clearing old data first.
func (pw *PostgresWriter) Write(records []models.EnhancedRecord) error {
	if len(records) == 0 {
		return nil
	}

	if err := pw.Clear(); err != nil {
		return err
	}

	const batchSize = 50
	for i := 0; i < len(records); i += batchSize {
		end := i + batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := pw.insertBatch(records[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(batch []models.EnhancedRecord) error {
	const cols = 13
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*cols)

	for idx, r := range batch {
		base := idx * cols
		placeholders := make([]string, cols)
		for j := 0; j < cols; j++ {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")

		var demographics interface{}
		if !r.Demographics.Empty() {
			data, err := json.Marshal(r.Demographics)
			if err != nil {
				return fmt.Errorf("postgres: marshal demographics for %s: %w", r.GeoID, err)
			}
			demographics = data
		}

		valueArgs = append(valueArgs,
			r.GeoID, r.GeoLevel, r.Year, r.State, r.County,
			r.TotalHouseholds, r.PovertyHouseholds, r.AliceHouseholds, r.AboveAliceHouseholds,
			r.PovertyRate, r.AliceRate, r.CombinedRate, demographics)
	}

	query := fmt.Sprintf(`
		INSERT INTO enhanced_records
			(geo_id, geo_level, year, state, county,
			 total_hh, poverty_hh, alice_hh, above_hh,
			 poverty_rate, alice_rate, combined_rate, demographics)
		VALUES %s
		ON CONFLICT (geo_id, year) DO NOTHING
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchAll retrieves all stored records — used by the report service.
func (pw *PostgresWriter) FetchAll() ([]models.EnhancedRecord, error) {
	rows, err := pw.db.Query(`
		SELECT geo_id, geo_level, year, state, county,
		       total_hh, poverty_hh, alice_hh, above_hh,
		       poverty_rate, alice_rate, combined_rate, demographics
		FROM enhanced_records
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var records []models.EnhancedRecord
	for rows.Next() {
		var r models.EnhancedRecord
		var demographics []byte
		if err := rows.Scan(
			&r.GeoID, &r.GeoLevel, &r.Year, &r.State, &r.County,
			&r.TotalHouseholds, &r.PovertyHouseholds, &r.AliceHouseholds, &r.AboveAliceHouseholds,
			&r.PovertyRate, &r.AliceRate, &r.CombinedRate, &demographics,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		if len(demographics) > 0 {
			profile := &models.DemographicProfile{}
			if err := json.Unmarshal(demographics, profile); err != nil {
				return nil, fmt.Errorf("postgres: decode demographics for %s: %w", r.GeoID, err)
			}
			r.Demographics = profile
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
