package injuries

import "testing"

var rosterMap = map[string]string{
	"Jayson Tatum":    "BOS",
	"Jrue Holiday":    "BOS",
	"LeBron James":    "LAL",
	"Anthony Davis":   "DAL",
	"Nikola Jokic":    "DEN",
	"Victor Wembanyama": "SAS",
}

func TestResolveSubstring(t *testing.T) {
	m := NewMatcher(rosterMap)

	// The page suffixes names with position noise that substring match skips.
	name, team := m.Resolve("Jayson Tatum SF")
	if name != "Jayson Tatum" || team != "BOS" {
		t.Errorf("Resolve = (%q, %q), want (Jayson Tatum, BOS)", name, team)
	}
}

func TestResolveFuzzy(t *testing.T) {
	m := NewMatcher(rosterMap)

	// Diacritics stripped upstream; no substring hit, fuzzy should recover it.
	name, team := m.Resolve("Nikola Jokíc")
	if name != "Nikola Jokic" || team != "DEN" {
		t.Errorf("Resolve = (%q, %q), want (Nikola Jokic, DEN)", name, team)
	}
}

func TestResolveUnknown(t *testing.T) {
	m := NewMatcher(rosterMap)

	name, team := m.Resolve("Totally Unrelated")
	if name != "Totally Unrelated" || team != "Unknown" {
		t.Errorf("Resolve = (%q, %q), want raw name and Unknown", name, team)
	}
}

func TestBuildReport(t *testing.T) {
	m := NewMatcher(rosterMap)
	report := m.BuildReport([]Entry{
		{RawName: "Jrue Holiday PG", Status: "Game Time Decision"},
		{RawName: "Mystery Man", Status: "Out"},
	})

	if got := report["Jrue Holiday"]; got != "Game Time Decision (BOS)" {
		t.Errorf("report[Jrue Holiday] = %q", got)
	}
	if got := report["Mystery Man"]; got != "Out (Unknown)" {
		t.Errorf("report[Mystery Man] = %q", got)
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		min  float64
		max  float64
	}{
		{"lebron james", "lebron james", 1, 1},
		{"lebron james", "lebron jame", 0.9, 1},
		{"lebron james", "nikola jokic", 0, 0.5},
		{"", "", 1, 1},
	}

	for _, tt := range tests {
		got := similarity(tt.a, tt.b)
		if got < tt.min || got > tt.max {
			t.Errorf("similarity(%q, %q) = %v, want within [%v, %v]", tt.a, tt.b, got, tt.min, tt.max)
		}
	}
}
