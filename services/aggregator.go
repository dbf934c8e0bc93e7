package services

import (
	"math"
	"sort"
	"strconv"

	"alice-pipeline/geo"
	"alice-pipeline/models"
	"alice-pipeline/utils"
)

// ACS total denominators. Age and race percentages are shares of total
// population, household-type percentages are shares of total households.
const (
	totalPopulationVar = "B01001_001E"
	totalHouseholdsVar = "B11001_001E"
	racePopulationVar  = "B03002_001E"
)

// ageGroupVars maps the survey's age brackets to the B01001 variables
// that compose them, male (003–025) and female (027–049) series.
var ageGroupVars = map[string][]string{
	"Under 25": {
		"B01001_003E", "B01001_004E", "B01001_005E", "B01001_006E",
		"B01001_007E", "B01001_008E", "B01001_009E", "B01001_010E",
		"B01001_027E", "B01001_028E", "B01001_029E", "B01001_030E",
		"B01001_031E", "B01001_032E", "B01001_033E", "B01001_034E",
	},
	"25 to 44": {
		"B01001_011E", "B01001_012E", "B01001_013E", "B01001_014E",
		"B01001_035E", "B01001_036E", "B01001_037E", "B01001_038E",
	},
	"45 to 64": {
		"B01001_015E", "B01001_016E", "B01001_017E", "B01001_018E", "B01001_019E",
		"B01001_039E", "B01001_040E", "B01001_041E", "B01001_042E", "B01001_043E",
	},
	"Over 65": {
		"B01001_020E", "B01001_021E", "B01001_022E", "B01001_023E",
		"B01001_024E", "B01001_025E",
		"B01001_044E", "B01001_045E", "B01001_046E", "B01001_047E",
		"B01001_048E", "B01001_049E",
	},
}

var householdTypeVars = map[string][]string{
	"Married With Children":       {"B11003_002E"},
	"Single Female With Children": {"B11003_010E"},
	"Single Male With Children":   {"B11003_016E"},
	"Nonfamily/Cohabitating":      {"B11001_007E"},
}

// raceEthnicityVars uses the B03002 Hispanic-or-Latino-by-race table.
// Hispanic is an ethnicity overlay across all races, so the shares are
// independent and do not sum to 100.
var raceEthnicityVars = map[string][]string{
	"White":                     {"B03002_003E"},
	"Black":                     {"B03002_004E"},
	"Hispanic":                  {"B03002_012E"},
	"Asian":                     {"B03002_006E"},
	"Hawaiian/Pacific Islander": {"B03002_007E"},
	"AI/AN":                     {"B03002_005E"},
	"Two or More Races":         {"B03002_009E"},
	"Other":                     {"B03002_008E"},
}

// AgeVariables returns every B01001 code the aggregator consumes,
// total population first, in a stable order suitable for an API query.
func AgeVariables() []string {
	return queryVariables(totalPopulationVar, ageGroupVars)
}

// HouseholdVariables returns the B11001/B11003 codes, household total first.
func HouseholdVariables() []string {
	return queryVariables(totalHouseholdsVar, householdTypeVars)
}

// RaceVariables returns the B03002 codes, population total first.
func RaceVariables() []string {
	return queryVariables(racePopulationVar, raceEthnicityVars)
}

func queryVariables(totalVar string, categories map[string][]string) []string {
	seen := map[string]struct{}{totalVar: {}}
	out := []string{totalVar}
	for _, vars := range categories {
		for _, v := range vars {
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Strings(out[1:])
	return out
}

// KeyedProfile pairs a demographic profile with the canonical geo key
// it was derived for. The merge engine indexes these in order.
type KeyedProfile struct {
	GeoID   string
	Profile *models.DemographicProfile
}

// BuildStats accounts for every row the aggregator saw: processed,
// skipped for a bad geography key, or flagged for a zero/missing total.
type BuildStats struct {
	Rows       int
	Profiles   int
	Skipped    int
	ZeroTotals int
}

// Aggregator turns raw variable-coded Census rows into per-geography
// demographic profiles.
type Aggregator struct {
	logger *utils.Logger
}

// NewAggregator creates an Aggregator with the given logger.
func NewAggregator(logger *utils.Logger) *Aggregator {
	return &Aggregator{logger: logger}
}

// BuildProfiles derives one profile per county key found in the state
// blocks. Within a block the age, household, and race row arrays
// compose into the same profile; the same key appearing in a later
// block produces a separate entry so the merge index can apply its
// last-write-wins tie-break.
func (a *Aggregator) BuildProfiles(blocks []models.StateBlock) ([]KeyedProfile, *BuildStats) {
	stats := &BuildStats{}
	var out []KeyedProfile

	for _, block := range blocks {
		profiles := make(map[string]*models.DemographicProfile)
		var order []string

		get := func(row models.RawVariableRow) *models.DemographicProfile {
			key, err := geo.CountyKey(row.StateFragment(), row.CountyFragment())
			if err != nil {
				stats.Skipped++
				a.logger.Warn("[aggregator] %s: skipping row with bad geography: %v", block.State, err)
				return nil
			}
			p, ok := profiles[key]
			if !ok {
				p = &models.DemographicProfile{}
				profiles[key] = p
				order = append(order, key)
			}
			return p
		}

		for _, row := range block.Age {
			stats.Rows++
			if p := get(row); p != nil {
				p.AgeGroups = a.categoryShares(ageGroupVars, row, totalPopulationVar, stats)
			}
		}
		for _, row := range block.Household {
			stats.Rows++
			if p := get(row); p != nil {
				p.HouseholdTypes = a.categoryShares(householdTypeVars, row, totalHouseholdsVar, stats)
			}
		}
		for _, row := range block.Race {
			stats.Rows++
			if p := get(row); p != nil {
				p.RaceEthnicity = a.categoryShares(raceEthnicityVars, row, racePopulationVar, stats)
			}
		}

		for _, key := range order {
			out = append(out, KeyedProfile{GeoID: key, Profile: profiles[key]})
		}
	}

	stats.Profiles = len(out)
	a.logger.Info("[aggregator] Built %d profiles from %d rows (skipped %d, zero totals %d)",
		stats.Profiles, stats.Rows, stats.Skipped, stats.ZeroTotals)
	return out, stats
}

// categoryShares computes each category's share of the row's total
// variable, rounded to one decimal place. A zero or missing total is a
// data-quality signal: the whole group comes back nil, never 0%.
func (a *Aggregator) categoryShares(categories map[string][]string, row models.RawVariableRow, totalVar string, stats *BuildStats) map[string]float64 {
	total := parseValue(row[totalVar])
	if total <= 0 {
		stats.ZeroTotals++
		return nil
	}

	shares := make(map[string]float64, len(categories))
	for label, vars := range categories {
		var sum float64
		for _, v := range vars {
			sum += parseValue(row[v])
		}
		shares[label] = round1(sum / total * 100)
	}
	return shares
}

// parseValue reads a string-encoded count; missing or unparseable
// values count as 0. The Census API encodes suppressed cells as
// negative sentinels, which are treated the same way.
func parseValue(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
