package analytics

import (
	"math"
	"strconv"
	"strings"
)

// Placeholder is rendered for any missing value.
const Placeholder = "—"

func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

func fixed(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// FmtSigned renders v with an explicit "+" for non-negative values.
func FmtSigned(v float64, decimals int) string {
	if v >= 0 {
		return "+" + fixed(v, decimals)
	}
	return fixed(v, decimals)
}

// SafeYoY renders a year-over-year delta as "YoY: +x.x", or "YoY: —" when absent.
func SafeYoY(v *float64, decimals int) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return "YoY: " + Placeholder
	}
	return "YoY: " + FmtSigned(*v, decimals)
}

// FmtProbPct renders a 0-1 probability as a percentage.
func FmtProbPct(p *float64) string {
	if p == nil {
		return Placeholder
	}
	pct := math.Max(0, math.Min(1, *p)) * 100
	switch {
	case pct > 0 && pct < 0.1:
		return "<0.1%"
	case pct > 0 && pct < 1:
		return "<1%"
	case pct < 10:
		return fixed(pct, 1) + "%"
	default:
		return strconv.FormatFloat(roundHalfUp(pct), 'f', 0, 64) + "%"
	}
}

// Ordinal renders 1st, 2nd, 3rd, 4th, 11th, 12th, 13th, 21st and so on.
func Ordinal(n float64) string {
	v := int64(roundHalfUp(n))
	s := strconv.FormatInt(v, 10)
	abs := v
	if abs < 0 {
		abs = -abs
	}
	if mod := abs % 100; mod >= 11 && mod <= 13 {
		return s + "th"
	}
	switch abs % 10 {
	case 1:
		return s + "st"
	case 2:
		return s + "nd"
	case 3:
		return s + "rd"
	default:
		return s + "th"
	}
}

// FmtAUD renders whole dollars with thousands separators, e.g. "$1,234,567".
func FmtAUD(v float64) string {
	n := int64(roundHalfUp(v))
	if n < 0 {
		return "-$" + group(-n)
	}
	return "$" + group(n)
}

// FmtThousands rounds v and groups it with commas.
func FmtThousands(v float64) string {
	n := int64(roundHalfUp(v))
	if n < 0 {
		return "-" + group(-n)
	}
	return group(n)
}

func group(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

func ptr[T any](v T) *T {
	return &v
}

func finitePtr(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}
