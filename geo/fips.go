package geo

import (
	"errors"
	"fmt"
	"strings"
)

// Fixed widths of FIPS fragments. A combined county key is always
// StateWidth+CountyWidth characters.
const (
	StateWidth  = 2
	CountyWidth = 3
)

// ErrUnknownState is returned when a state name has no FIPS entry.
// Callers skip and log the record instead of joining on a corrupt key.
var ErrUnknownState = errors.New("unknown state name")

// State pairs a display name with its 2-digit FIPS code.
type State struct {
	Name string
	FIPS string
}

// states lists all 50 states plus DC in FIPS order.
var states = []State{
	{"Alabama", "01"}, {"Alaska", "02"}, {"Arizona", "04"},
	{"Arkansas", "05"}, {"California", "06"}, {"Colorado", "08"},
	{"Connecticut", "09"}, {"Delaware", "10"},
	{"District of Columbia", "11"}, {"Florida", "12"}, {"Georgia", "13"},
	{"Hawaii", "15"}, {"Idaho", "16"}, {"Illinois", "17"},
	{"Indiana", "18"}, {"Iowa", "19"}, {"Kansas", "20"},
	{"Kentucky", "21"}, {"Louisiana", "22"}, {"Maine", "23"},
	{"Maryland", "24"}, {"Massachusetts", "25"}, {"Michigan", "26"},
	{"Minnesota", "27"}, {"Mississippi", "28"}, {"Missouri", "29"},
	{"Montana", "30"}, {"Nebraska", "31"}, {"Nevada", "32"},
	{"New Hampshire", "33"}, {"New Jersey", "34"}, {"New Mexico", "35"},
	{"New York", "36"}, {"North Carolina", "37"}, {"North Dakota", "38"},
	{"Ohio", "39"}, {"Oklahoma", "40"}, {"Oregon", "41"},
	{"Pennsylvania", "42"}, {"Rhode Island", "44"},
	{"South Carolina", "45"}, {"South Dakota", "46"}, {"Tennessee", "47"},
	{"Texas", "48"}, {"Utah", "49"}, {"Vermont", "50"},
	{"Virginia", "51"}, {"Washington", "53"}, {"West Virginia", "54"},
	{"Wisconsin", "55"}, {"Wyoming", "56"},
}

var fipsByName = make(map[string]string, len(states))

func init() {
	for _, s := range states {
		fipsByName[strings.ToLower(s.Name)] = s.FIPS
	}
}

// States returns every known state in FIPS order.
func States() []State {
	out := make([]State, len(states))
	copy(out, states)
	return out
}

// StateFIPS resolves a human-readable state name to its 2-digit FIPS
// code. Matching is case-insensitive and ignores surrounding
// whitespace. Unknown names return ErrUnknownState.
func StateFIPS(name string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	fips, ok := fipsByName[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownState, name)
	}
	return fips, nil
}

// StateKey normalizes a raw state FIPS fragment to its fixed 2-digit
// form: "1" → "01".
func StateKey(fragment string) (string, error) {
	return padFragment(fragment, StateWidth)
}

// CountyKey builds the canonical 5-digit state+county key from raw
// FIPS fragments: ("12","057") → "12057", ("1","3") → "01003".
func CountyKey(state, county string) (string, error) {
	s, err := padFragment(state, StateWidth)
	if err != nil {
		return "", fmt.Errorf("state fragment: %w", err)
	}
	c, err := padFragment(county, CountyWidth)
	if err != nil {
		return "", fmt.Errorf("county fragment: %w", err)
	}
	return s + c, nil
}

// padFragment zero-pads a numeric FIPS fragment on the left to width.
// Fragments longer than width or containing non-digits are rejected.
func padFragment(fragment string, width int) (string, error) {
	if fragment == "" {
		return "", fmt.Errorf("empty FIPS fragment")
	}
	if len(fragment) > width {
		return "", fmt.Errorf("FIPS fragment %q longer than %d digits", fragment, width)
	}
	for _, r := range fragment {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("FIPS fragment %q is not numeric", fragment)
		}
	}
	return strings.Repeat("0", width-len(fragment)) + fragment, nil
}
