package census

import "testing"

func TestDecodeTable(t *testing.T) {
	body := []byte(`[
		["B01001_001E","B01001_003E","state","county"],
		["21312","1523","12","057"],
		["46723",null,"12","086"]
	]`)

	rows, err := DecodeTable(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d; want 2", len(rows))
	}

	if rows[0]["B01001_001E"] != "21312" {
		t.Errorf("total = %q; want \"21312\"", rows[0]["B01001_001E"])
	}
	if rows[0].StateFragment() != "12" || rows[0].CountyFragment() != "057" {
		t.Errorf("fragments = %q/%q; want 12/057", rows[0].StateFragment(), rows[0].CountyFragment())
	}

	// Null cell is omitted, not an empty string entry.
	if _, present := rows[1]["B01001_003E"]; present {
		t.Error("null cell should be absent from the row")
	}
}

func TestDecodeTableRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{{`},
		{"object", `{"data": []}`},
		{"header only", `[["B01001_001E","state","county"]]`},
		{"empty", `[]`},
	}

	for _, tt := range tests {
		if _, err := DecodeTable([]byte(tt.body)); err == nil {
			t.Errorf("%s: expected error, got nil", tt.name)
		}
	}
}
