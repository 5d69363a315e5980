package params

import (
	"fmt"
	"strconv"
	"strings"
)

// Bag is the raw parameter set submitted with a job. Values arrive as
// whatever the transport decoded them to (string, bool, int64, float64)
// and are never mutated after receipt.
type Bag map[string]any

// Get returns the value of the first alias present and defined in the
// bag, rendered as a string, or def when no alias matches.
func Get(data Bag, aliases []string, def string) string {
	for _, key := range aliases {
		value, ok := data[key]
		if !ok || value == nil {
			continue
		}
		switch v := value.(type) {
		case string:
			return v
		case bool:
			return strconv.FormatBool(v)
		case int:
			return strconv.Itoa(v)
		case int64:
			return strconv.FormatInt(v, 10)
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		default:
			return fmt.Sprint(v)
		}
	}
	return def
}

// Has reports whether any alias is present and defined in the bag.
func Has(data Bag, aliases []string) bool {
	for _, key := range aliases {
		if value, ok := data[key]; ok && value != nil {
			return true
		}
	}
	return false
}

// GetBool resolves the first matching alias to a boolean. The submission
// forms historically encode affirmatives as "Yes", "yes", "true", true,
// or 1; everything else present counts as false. Absent aliases yield def.
func GetBool(data Bag, aliases []string, def bool) bool {
	for _, key := range aliases {
		value, ok := data[key]
		if !ok || value == nil {
			continue
		}
		switch v := value.(type) {
		case bool:
			return v
		case string:
			return v == "Yes" || v == "yes" || v == "true"
		case int:
			return v == 1
		case int64:
			return v == 1
		case float64:
			return v == 1
		default:
			return false
		}
	}
	return def
}

// GetInt resolves the first matching alias to an integer. Malformed
// values fall back to def silently; submissions must never fail on a
// stray non-numeric form field.
func GetInt(data Bag, aliases []string, def int) int {
	for _, key := range aliases {
		value, ok := data[key]
		if !ok || value == nil {
			continue
		}
		switch v := value.(type) {
		case int:
			return v
		case int64:
			return int(v)
		case float64:
			return int(v)
		case bool:
			if v {
				return 1
			}
			return 0
		case string:
			parsed, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return def
			}
			return parsed
		default:
			return def
		}
	}
	return def
}

// GetFloat resolves the first matching alias to a float. The silent
// fallback policy matches GetInt.
func GetFloat(data Bag, aliases []string, def float64) float64 {
	for _, key := range aliases {
		value, ok := data[key]
		if !ok || value == nil {
			continue
		}
		switch v := value.(type) {
		case float64:
			return v
		case int:
			return float64(v)
		case int64:
			return float64(v)
		case string:
			parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return def
			}
			return parsed
		default:
			return def
		}
	}
	return def
}
