package club

import "testing"

func TestNormalizeName_Idempotent(t *testing.T) {
	t.Parallel()

	for alias := range aliases {
		once := NormalizeName(alias)
		if twice := NormalizeName(once); twice != once {
			t.Fatalf("NormalizeName not idempotent for %q: once=%q twice=%q", alias, once, twice)
		}
	}
	for _, team := range teams {
		if got := NormalizeName(team.Name); got != team.Name {
			t.Fatalf("canonical name %q changed to %q", team.Name, got)
		}
	}
}

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "Geelong", want: "Geelong Cats"},
		{in: " GWS ", want: "GWS GIANTS"},
		{in: "Kangaroos", want: "North Melbourne"},
		{in: "Collingwood", want: "Collingwood"},
		{in: "Unknown FC", want: "Unknown FC"},
		{in: "", want: ""},
	}
	for _, tc := range tests {
		if got := NormalizeName(tc.in); got != tc.want {
			t.Fatalf("NormalizeName(%q)=%q want=%q", tc.in, got, tc.want)
		}
	}
}

func TestCoerceTeamID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "COLL", want: "40"},
		{in: "coll", want: "40"},
		{in: "Collingwood", want: "40"},
		{in: "collingwood", want: "40"},
		{in: "40", want: "40"},
		{in: "Gold Coast", want: "1000"},
		{in: " GWS ", want: "1010"},
		{in: "unknown", want: "unknown"},
		{in: "  ", want: ""},
	}
	for _, tc := range tests {
		if got := CoerceTeamID(tc.in); got != tc.want {
			t.Fatalf("CoerceTeamID(%q)=%q want=%q", tc.in, got, tc.want)
		}
	}
}

func TestLookups(t *testing.T) {
	t.Parallel()

	if got := NameForID("70"); got != "Geelong Cats" {
		t.Fatalf("unexpected name: got=%q want=Geelong Cats", got)
	}
	if got := NameForID("999"); got != "999" {
		t.Fatalf("unexpected fallback name: got=%q want=999", got)
	}
	team, ok := ByKey("Sydney")
	if !ok || team.ID != "140" {
		t.Fatalf("unexpected ByKey result: team=%+v ok=%v", team, ok)
	}
	if len(All()) != 18 {
		t.Fatalf("unexpected club count: got=%d want=18", len(All()))
	}
}

func TestColors(t *testing.T) {
	t.Parallel()

	if got := PrimaryColor("Essendon"); got != "#CC0000" {
		t.Fatalf("unexpected color: got=%q", got)
	}
	if got := PrimaryColor("Nowhere"); got != DefaultColor {
		t.Fatalf("unexpected default color: got=%q", got)
	}
	if got := AcquisitionColor("National Draft"); got != "#7C3AED" {
		t.Fatalf("unexpected acquisition color: got=%q", got)
	}
	if got := AcquisitionColor("X"); got != "#2563EB" {
		t.Fatalf("unexpected fallback color for X: got=%q", got)
	}
	if got := AcquisitionColor("AB"); got != "#7C3AED" {
		t.Fatalf("unexpected fallback color for AB: got=%q", got)
	}
	if AcquisitionColor("Zone Selection") != AcquisitionColor(" Zone Selection ") {
		t.Fatalf("expected stable color for trimmed category")
	}
	if got := AgeCategoryIndex("Veterans"); got != 3 {
		t.Fatalf("unexpected age category index: got=%d want=3", got)
	}
}
