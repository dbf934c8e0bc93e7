package models

// RawVariableRow is one county row from the Census API: a flat mapping
// of ACS variable code to string-encoded numeric value, plus the
// "state" and "county" FIPS fragment fields the API returns alongside.
type RawVariableRow map[string]string

// StateFragment returns the row's raw state FIPS fragment.
func (r RawVariableRow) StateFragment() string { return r["state"] }

// CountyFragment returns the row's raw county FIPS fragment.
func (r RawVariableRow) CountyFragment() string { return r["county"] }

// StateBlock groups the raw demographic rows fetched for one state.
// Any of the three row arrays may be nil when its fetch failed.
type StateBlock struct {
	State     string           `json:"state"`
	StateFIPS string           `json:"state_fips"`
	Age       []RawVariableRow `json:"age"`
	Household []RawVariableRow `json:"household"`
	Race      []RawVariableRow `json:"race"`
}

// DemographicsFile is the on-disk cache of fetched Census demographics.
type DemographicsFile struct {
	Created      string       `json:"created"`
	Source       string       `json:"source"`
	Demographics []StateBlock `json:"demographics"`
}

// DemographicProfile holds the per-geography category percentages
// derived from raw variable rows. Each category map is independently
// nil when its source rows were missing or its total denominator was
// zero: a zero total is a data-quality signal, not a legitimate 0%.
type DemographicProfile struct {
	AgeGroups      map[string]float64 `json:"age_groups,omitempty"`
	HouseholdTypes map[string]float64 `json:"household_types,omitempty"`
	RaceEthnicity  map[string]float64 `json:"race_ethnicity,omitempty"`
}

// Empty reports whether no category group was populated at all.
func (p *DemographicProfile) Empty() bool {
	return p == nil || (p.AgeGroups == nil && p.HouseholdTypes == nil && p.RaceEthnicity == nil)
}
