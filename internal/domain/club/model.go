package club

import "strings"

// DefaultTeamID is the landing team for unknown routes (Collingwood).
const DefaultTeamID = "40"

// Team is one AFL club as addressed by the dashboard routes.
type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var teams = []Team{
	{ID: "10", Name: "Adelaide"},
	{ID: "20", Name: "Brisbane Lions"},
	{ID: "30", Name: "Carlton"},
	{ID: "40", Name: "Collingwood"},
	{ID: "50", Name: "Essendon"},
	{ID: "60", Name: "Fremantle"},
	{ID: "70", Name: "Geelong Cats"},
	{ID: "1000", Name: "Gold Coast SUNS"},
	{ID: "1010", Name: "GWS GIANTS"},
	{ID: "80", Name: "Hawthorn"},
	{ID: "90", Name: "Melbourne"},
	{ID: "100", Name: "North Melbourne"},
	{ID: "110", Name: "Port Adelaide"},
	{ID: "120", Name: "Richmond"},
	{ID: "130", Name: "St Kilda"},
	{ID: "140", Name: "Sydney"},
	{ID: "150", Name: "West Coast"},
	{ID: "160", Name: "Western Bulldogs"},
}

var legacyCodes = map[string]string{
	"ADE":  "10",
	"BRI":  "20",
	"CARL": "30",
	"COLL": "40",
	"ESS":  "50",
	"FRE":  "60",
	"GEE":  "70",
	"GC":   "1000",
	"GWS":  "1010",
	"HAW":  "80",
	"MELB": "90",
	"NM":   "100",
	"PORT": "110",
	"RICH": "120",
	"STK":  "130",
	"SYD":  "140",
	"WCE":  "150",
	"WB":   "160",
}

var aliases = map[string]string{
	"Adelaide Crows":         "Adelaide",
	"Brisbane":               "Brisbane Lions",
	"Geelong":                "Geelong Cats",
	"Gold Coast":             "Gold Coast SUNS",
	"Gold Coast Suns":        "Gold Coast SUNS",
	"GWS":                    "GWS GIANTS",
	"Greater Western Sydney": "GWS GIANTS",
	"North Melbourne":        "North Melbourne",
	"Kangaroos":              "North Melbourne",
	"Port":                   "Port Adelaide",
	"St Kilda":               "St Kilda",
	"Sydney Swans":           "Sydney",
	"West Coast Eagles":      "West Coast",
	"Western Bulldogs":       "Western Bulldogs",
}

// All returns the club list in display order.
func All() []Team {
	out := make([]Team, len(teams))
	copy(out, teams)
	return out
}

func ByID(id string) (Team, bool) {
	for _, t := range teams {
		if t.ID == id {
			return t, true
		}
	}
	return Team{}, false
}

// NameForID returns the club name for id, or id itself when it is not a known club.
func NameForID(id string) string {
	if t, ok := ByID(id); ok {
		return t.Name
	}
	return id
}

// ByKey finds the club whose canonical name equals key.
func ByKey(key string) (Team, bool) {
	for _, t := range teams {
		if NormalizeName(t.Name) == key {
			return t, true
		}
	}
	return Team{}, false
}

// NormalizeName maps a source spelling of a club to its canonical key.
// Unknown names are returned trimmed. NormalizeName(NormalizeName(x)) == NormalizeName(x).
func NormalizeName(s string) string {
	x := strings.TrimSpace(s)
	if v, ok := aliases[x]; ok {
		return v
	}
	return x
}

// CoerceTeamID resolves a route or query team reference: a known id, a legacy
// code, or a club name. Anything else is returned trimmed and unchanged.
func CoerceTeamID(raw string) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return ""
	}
	if _, ok := ByID(v); ok {
		return v
	}
	if id, ok := legacyCodes[strings.ToUpper(v)]; ok {
		return id
	}

	want := strings.ToLower(NormalizeName(v))
	for _, t := range teams {
		if strings.ToLower(NormalizeName(t.Name)) == want {
			return t.ID
		}
	}
	return v
}
