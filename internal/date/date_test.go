package date

import (
	"encoding/json"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"
)

func TestParse(t *testing.T) {
	d, err := Parse("2024-02-29")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d.String() != "2024-02-29" {
		t.Fatalf("String = %q", d.String())
	}
	for _, bad := range []string{"2024-2-29", "29/02/2024", "2023-02-29", ""} {
		if _, err := Parse(bad); err == nil {
			t.Fatalf("Parse(%q) should fail", bad)
		}
	}
}

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("17:05")
	if err != nil || h != 17 || m != 5 {
		t.Fatalf("ParseClock = %d %d %v", h, m, err)
	}
	for _, bad := range []string{"5pm", "24:00", "17:60", "1700"} {
		if _, _, err := ParseClock(bad); err == nil {
			t.Fatalf("ParseClock(%q) should fail", bad)
		}
	}
}

func TestAt(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	got, err := New(2024, 6, 14).At("17:00", loc)
	if err != nil {
		t.Fatalf("At: %v", err)
	}
	want := time.Date(2024, 6, 14, 17, 0, 0, 0, loc)
	if !got.Equal(want) || got.Location() != loc {
		t.Fatalf("At = %v, want %v", got, want)
	}
}

func TestOf(t *testing.T) {
	late := time.Date(2024, 6, 14, 23, 30, 0, 0, time.FixedZone("X", -5*3600))
	if !Of(late).Equal(New(2024, 6, 14)) {
		t.Fatalf("Of should use the time's own calendar day, got %s", Of(late))
	}
}

func TestEncoding(t *testing.T) {
	type doc struct {
		Due Date `yaml:"due" json:"due"`
	}
	in := doc{Due: New(2024, 12, 1)}

	y, err := yaml.Marshal(in)
	if err != nil {
		t.Fatalf("yaml.Marshal: %v", err)
	}
	var fromYAML doc
	if err := yaml.Unmarshal(y, &fromYAML); err != nil {
		t.Fatalf("yaml.Unmarshal: %v", err)
	}
	if !fromYAML.Due.Equal(in.Due) {
		t.Fatalf("yaml round trip: %s", fromYAML.Due)
	}

	j, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	if string(j) != `{"due":"2024-12-01"}` {
		t.Fatalf("json = %s", j)
	}
	var fromJSON doc
	if err := json.Unmarshal([]byte(`{"due":"bad"}`), &fromJSON); err == nil {
		t.Fatal("expected an error for a malformed date")
	}
}
