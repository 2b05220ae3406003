package util

import (
	"testing"
	"time"
)

func TestValidSymbol(t *testing.T) {
	good := []string{"A", "AAPL", "GOOGL", "BRK.B", "RELI.NSE"}
	for _, s := range good {
		if !ValidSymbol(s) {
			t.Fatalf("expected %q to be valid", s)
		}
	}
	bad := []string{"", "aapl", "TOOLONG", "AB.CDEF", "A1", "BRK.", ".B"}
	for _, s := range bad {
		if ValidSymbol(s) {
			t.Fatalf("expected %q to be invalid", s)
		}
	}
}

func TestNormalizeSymbol(t *testing.T) {
	if got := NormalizeSymbol("  brk.b "); got != "BRK.B" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestParseFloatDefault(t *testing.T) {
	if got := ParseFloatDefault("1.2345%", 0); got != 1.2345 {
		t.Fatalf("unexpected %v", got)
	}
	if got := ParseFloatDefault("None", -1); got != -1 {
		t.Fatalf("expected default, got %v", got)
	}
	if got := ParseInt64Default("123456789", 0); got != 123456789 {
		t.Fatalf("unexpected %v", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdef", 3); got != "abc..." {
		t.Fatalf("unexpected %q", got)
	}
	if got := Truncate("abc", 3); got != "abc" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestDaysBack(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	days := DaysBack(now, 30)
	if len(days) != 31 {
		t.Fatalf("expected 31 days, got %d", len(days))
	}
	if days[0] != "2024-01-31" || days[30] != "2024-03-01" {
		t.Fatalf("unexpected range %s..%s", days[0], days[30])
	}
}

func TestIsMarketOpen(t *testing.T) {
	cases := []struct {
		at   time.Time
		want bool
	}{
		{time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC), true},   // Monday open
		{time.Date(2024, 3, 4, 15, 59, 0, 0, time.UTC), true}, // Monday before close
		{time.Date(2024, 3, 4, 16, 0, 0, 0, time.UTC), false},
		{time.Date(2024, 3, 4, 8, 59, 0, 0, time.UTC), false},
		{time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC), false}, // Saturday
	}
	for _, c := range cases {
		if got := IsMarketOpen(c.at); got != c.want {
			t.Fatalf("IsMarketOpen(%v) = %v, want %v", c.at, got, c.want)
		}
	}
	if _, ok := ParseDate("2024-02-30"); ok {
		t.Fatalf("expected invalid date")
	}
}
