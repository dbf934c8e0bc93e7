package geo

import (
	"errors"
	"testing"
)

func TestStateFIPS(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Florida", "12"},
		{"florida", "12"},
		{"  New York  ", "36"},
		{"District of Columbia", "11"},
		{"Wyoming", "56"},
	}

	for _, tt := range tests {
		got, err := StateFIPS(tt.name)
		if err != nil {
			t.Errorf("StateFIPS(%q) returned error: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("StateFIPS(%q) = %q; want %q", tt.name, got, tt.want)
		}
	}
}

func TestStateFIPSUnknown(t *testing.T) {
	for _, name := range []string{"Puerto Rico", "Atlantis", ""} {
		_, err := StateFIPS(name)
		if err == nil {
			t.Errorf("StateFIPS(%q) expected error, got nil", name)
			continue
		}
		if !errors.Is(err, ErrUnknownState) {
			t.Errorf("StateFIPS(%q) error = %v; want ErrUnknownState", name, err)
		}
	}
}

func TestCountyKey(t *testing.T) {
	tests := []struct {
		state  string
		county string
		want   string
	}{
		{"12", "057", "12057"},
		{"1", "3", "01003"},
		{"01", "1", "01001"},
		{"48", "453", "48453"},
	}

	for _, tt := range tests {
		got, err := CountyKey(tt.state, tt.county)
		if err != nil {
			t.Errorf("CountyKey(%q, %q) returned error: %v", tt.state, tt.county, err)
			continue
		}
		if len(got) != StateWidth+CountyWidth {
			t.Errorf("CountyKey(%q, %q) = %q; want 5-character key", tt.state, tt.county, got)
		}
		if got != tt.want {
			t.Errorf("CountyKey(%q, %q) = %q; want %q", tt.state, tt.county, got, tt.want)
		}
	}
}

func TestCountyKeyRejectsBadFragments(t *testing.T) {
	tests := []struct {
		state  string
		county string
	}{
		{"", "057"},
		{"12", ""},
		{"123", "057"},
		{"12", "0571"},
		{"1a", "057"},
		{"12", "05x"},
	}

	for _, tt := range tests {
		if _, err := CountyKey(tt.state, tt.county); err == nil {
			t.Errorf("CountyKey(%q, %q) expected error, got nil", tt.state, tt.county)
		}
	}
}

func TestStateKey(t *testing.T) {
	got, err := StateKey("8")
	if err != nil {
		t.Fatalf("StateKey(\"8\") returned error: %v", err)
	}
	if got != "08" {
		t.Errorf("StateKey(\"8\") = %q; want \"08\"", got)
	}
}
