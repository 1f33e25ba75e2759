package normalize

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var providerPrefix = regexp.MustCompile(`(?i)^CD[_-]?I`)

// ToNumber coerces a raw cell to a finite number. Empty strings, "na" and
// "null" (any case) are absent, as are booleans and non-finite values.
func ToNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case bool:
		return 0, false
	case float64:
		return finite(x)
	case float32:
		return finite(float64(x))
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case int32:
		return float64(x), true
	case string:
		return parseNumber(x)
	default:
		return parseNumber(fmt.Sprint(x))
	}
}

func parseNumber(s string) (float64, bool) {
	t := strings.TrimSpace(s)
	switch strings.ToLower(t) {
	case "", "na", "null":
		return 0, false
	}
	n, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0, false
	}
	return finite(n)
}

func finite(n float64) (float64, bool) {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// ToTrimmedString stringifies a raw cell. nil becomes "".
func ToTrimmedString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}

// PlayerID canonicalizes a provider id by stripping one leading CD_I / CD-I / CDI prefix.
func PlayerID(v any) string {
	return providerPrefix.ReplaceAllString(ToTrimmedString(v), "")
}

// NumberPtr is ToNumber as a nullable value.
func NumberPtr(v any) *float64 {
	n, ok := ToNumber(v)
	if !ok {
		return nil
	}
	return &n
}
