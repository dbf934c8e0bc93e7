package models

import "time"

// Geography levels present in the master dataset.
const (
	GeoLevelState  = "state"
	GeoLevelCounty = "county"
)

// GeographyRecord is one row of the master ALICE dataset: a single
// geographic area in a single reporting year, with household counts and
// hardship rates. GeoID is a zero-padded FIPS key: 2 digits for a
// state, 5 (state+county) for a county.
type GeographyRecord struct {
	GeoID           string `json:"geoID"`
	GeoLevel        string `json:"geoLevel"`
	Year            int    `json:"year"`
	State           string `json:"state,omitempty"`
	County          string `json:"county,omitempty"`
	GeoDisplayLabel string `json:"geoDisplayLabel,omitempty"`

	TotalHouseholds      int `json:"totalHouseholds"`
	PovertyHouseholds    int `json:"povertyHouseholds"`
	AliceHouseholds      int `json:"aliceHouseholds"`
	AboveAliceHouseholds int `json:"aboveAliceHouseholds"`

	// combinedRate comes from the survey as its own field; it is near
	// povertyRate+aliceRate but source rounding means the three are
	// trusted independently rather than reconciled.
	PovertyRate  float64 `json:"povertyRate"`
	AliceRate    float64 `json:"aliceRate"`
	CombinedRate float64 `json:"combinedRate"`

	DataSource string `json:"dataSource,omitempty"`
}

// StateSummary is one row of the ALICE national report: state-level
// rates keyed by state NAME rather than FIPS, so it has to go through
// the normalizer before it can join anything.
type StateSummary struct {
	State        string  `json:"state"`
	Year         int     `json:"year"`
	PovertyRate  float64 `json:"povertyRate"`
	AliceRate    float64 `json:"aliceRate"`
	CombinedRate float64 `json:"combinedRate"`
	DataLevel    string  `json:"dataLevel,omitempty"`
	Source       string  `json:"source,omitempty"`
}

// EnhancedRecord is a GeographyRecord with its demographic profile
// attached, or nil when no profile matched the record's GeoID.
type EnhancedRecord struct {
	GeographyRecord
	Demographics *DemographicProfile `json:"demographics"`
}

// Metadata describes one enhanced database document.
type Metadata struct {
	Created                 time.Time `json:"created"`
	TotalRecords            int       `json:"total_records"`
	RecordsWithDemographics int       `json:"records_with_demographics"`
	DataSources             []string  `json:"data_sources"`
}

// EnhancedDatabase is the on-disk output document: a metadata block
// followed by the full enhanced record array.
type EnhancedDatabase struct {
	Metadata Metadata         `json:"metadata"`
	Data     []EnhancedRecord `json:"data"`
}
