package util

import "time"

// DateLayout is the calendar-date format used for price bars and predictions.
const DateLayout = "2006-01-02"

// FormatDate renders t as YYYY-MM-DD in its own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD string. Returns (t, true) on success.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DaysBack lists n+1 calendar dates ending at now, oldest first.
func DaysBack(now time.Time, n int) []string {
	out := make([]string, 0, n+1)
	for i := n; i >= 0; i-- {
		out = append(out, FormatDate(now.AddDate(0, 0, -i)))
	}
	return out
}

// IsMarketOpen reports regular US session hours: Monday to Friday, 9:00 to 16:00 local time.
func IsMarketOpen(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	h := t.Hour()
	return h >= 9 && h < 16
}
