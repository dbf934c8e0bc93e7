package tableau

import "testing"

func TestExtractEmbeddedJSON(t *testing.T) {
	page := `
		<html><script>
		var bootstrapSession = {"sessionid":"ABC123","sheet":"WebDash"};
		var other = 1;
		var series = {"values": [1, 2, 3]};
		</script></html>`

	captures := extractEmbeddedJSON(page, "https://public.tableau.com/views/test/Sheet")
	if len(captures) != 2 {
		t.Fatalf("captures = %d; want 2", len(captures))
	}

	if string(captures[0].Data) != `{"sessionid":"ABC123","sheet":"WebDash"}` {
		t.Errorf("bootstrap capture = %s", captures[0].Data)
	}
	if captures[0].Source == "" || captures[0].Pattern == "" {
		t.Error("capture provenance fields should be populated")
	}
}

func TestExtractEmbeddedJSONIgnoresInvalid(t *testing.T) {
	tests := []struct {
		name string
		page string
	}{
		{"no matches", `<html><body>plain page</body></html>`},
		{"broken json", `bootstrapSession = {"unclosed": ;`},
	}

	for _, tt := range tests {
		if captures := extractEmbeddedJSON(tt.page, "src"); len(captures) != 0 {
			t.Errorf("%s: captures = %d; want 0", tt.name, len(captures))
		}
	}
}
