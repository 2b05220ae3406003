package util

import (
	"regexp"
	"strconv"
	"strings"
)

var symbolPattern = regexp.MustCompile(`^[A-Z]{1,5}(\.[A-Z]{1,3})?$`)

// NormalizeSymbol trims and upper-cases a ticker.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ValidSymbol checks an already normalized ticker, e.g. AAPL or RELI.NS.
func ValidSymbol(s string) bool {
	return symbolPattern.MatchString(s)
}

// ParseIntDefault parses string to int or returns default if empty/invalid.
func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// ParseInt64Default parses provider integers such as volumes.
func ParseInt64Default(s string, def int64) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return def
	}
	return v
}

// ParseFloatDefault parses provider decimals. A trailing percent sign is ignored.
func ParseFloatDefault(s string, def float64) float64 {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}

// Truncate shortens s to max runes and appends an ellipsis when it was cut.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

// FirstNonEmpty returns the first non-blank value.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
