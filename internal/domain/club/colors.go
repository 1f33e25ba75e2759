package club

import (
	"strings"
	"unicode/utf16"
)

// DefaultColor is used for clubs without a brand color.
const DefaultColor = "#111111"

var primaryColors = map[string]string{
	"Adelaide":         "#002B5C",
	"Brisbane Lions":   "#7C003E",
	"Carlton":          "#001F5B",
	"Collingwood":      "#111111",
	"Essendon":         "#CC0000",
	"Fremantle":        "#4B1F6F",
	"Geelong Cats":     "#002B5C",
	"Gold Coast SUNS":  "#B5121B",
	"GWS GIANTS":       "#F05A28",
	"Hawthorn":         "#5A2A00",
	"Melbourne":        "#001B3A",
	"North Melbourne":  "#003DA5",
	"Port Adelaide":    "#008AAB",
	"Richmond":         "#F5B301",
	"St Kilda":         "#111111",
	"Sydney":           "#D71920",
	"West Coast":       "#002B5C",
	"Western Bulldogs": "#1E3A8A",
}

// AgeCategoryOrder is the preferred display order of roster age categories.
var AgeCategoryOrder = []string{"Rising Stars", "Established Youth", "Prime", "Veterans", "Old Timers"}

var ageCategoryColors = map[string]string{
	"Rising Stars":      "#2563EB",
	"Established Youth": "#7C3AED",
	"Prime":             "#059669",
	"Veterans":          "#F59E0B",
	"Old Timers":        "#EF4444",
}

var acquisitionColors = map[string]string{
	"National Draft":   "#7C3AED",
	"Rookie Draft":     "#2563EB",
	"Mid-Season Draft": "#14B8A6",
	"Trade":            "#F59E0B",
	"Free Agent":       "#EF4444",
	"Pre-Listing":      "#059669",
	"Category B":       "#EC4899",
	"SSP":              "#64748B",
}

var palette = []string{"#2563EB", "#7C3AED", "#059669", "#F59E0B", "#EF4444", "#14B8A6", "#64748B", "#EC4899"}

// PrimaryColor returns the brand color for a canonical club key.
func PrimaryColor(key string) string {
	if c, ok := primaryColors[key]; ok {
		return c
	}
	return DefaultColor
}

func AgeCategoryColor(category string) string {
	if c, ok := ageCategoryColors[strings.TrimSpace(category)]; ok {
		return c
	}
	return DefaultColor
}

// AgeCategoryIndex returns the position of category in AgeCategoryOrder or -1.
func AgeCategoryIndex(category string) int {
	for i, c := range AgeCategoryOrder {
		if c == category {
			return i
		}
	}
	return -1
}

// AcquisitionColor returns a fixed color for known acquisition categories and a
// hash-derived palette color for anything else, so unknown categories stay stable.
func AcquisitionColor(category string) string {
	k := strings.TrimSpace(category)
	if c, ok := acquisitionColors[k]; ok {
		return c
	}

	var h uint32
	for _, unit := range utf16.Encode([]rune(k)) {
		h = h*31 + uint32(unit)
	}
	return palette[h%uint32(len(palette))]
}
