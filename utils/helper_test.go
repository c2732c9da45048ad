package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestOrdinalDay(t *testing.T) {
	cases := map[int]string{
		1:  "1st",
		2:  "2nd",
		3:  "3rd",
		4:  "4th",
		5:  "5th",
		11: "11th",
		12: "12th",
		13: "13th",
		21: "21st",
		22: "22nd",
		23: "23rd",
		28: "28th",
		31: "31st",
	}
	for day, want := range cases {
		if got := OrdinalDay(day); got != want {
			t.Errorf("OrdinalDay(%d) = %q, want %q", day, got, want)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"5", "5.00"},
		{"1200", "1,200.00"},
		{"1234567.5", "1,234,567.50"},
		{"999", "999.00"},
		{"1000", "1,000.00"},
		{"-1200", "-1,200.00"},
		{"0.125", "0.13"},
	}
	for _, tc := range cases {
		amount, err := decimal.NewFromString(tc.in)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.in, err)
		}
		if got := FormatMoney(amount); got != tc.want {
			t.Errorf("FormatMoney(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMonthsBetween(t *testing.T) {
	cases := []struct {
		start, end string
		want       int
	}{
		// The standard year lease ends on the last day, not the anniversary.
		{"2024-01-01", "2024-12-31", 12},
		{"2024-01-01", "2025-01-01", 12},
		{"2024-01-01", "2024-06-30", 6},
		{"2024-01-01", "2024-01-31", 1},
		{"2024-01-15", "2024-02-01", 1},
		{"2023-11-01", "2024-01-31", 3},
	}
	for _, tc := range cases {
		start, _ := time.Parse("2006-01-02", tc.start)
		end, _ := time.Parse("2006-01-02", tc.end)
		if got := MonthsBetween(start, end); got != tc.want {
			t.Errorf("MonthsBetween(%s, %s) = %d, want %d", tc.start, tc.end, got, tc.want)
		}
	}
}

func TestBrowserFromUserAgent(t *testing.T) {
	cases := []struct {
		name  string
		agent string
		want  string
	}{
		{"chrome", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 Chrome/120.0 Safari/537.36", "Google Chrome"},
		// Edge and Opera embed "Chrome" and must match first.
		{"edge", "Mozilla/5.0 AppleWebKit/537.36 Chrome/120.0 Safari/537.36 Edg/120.0", "Microsoft Edge"},
		{"opera", "Mozilla/5.0 AppleWebKit/537.36 Chrome/120.0 Safari/537.36 OPR/106.0", "Opera"},
		{"firefox", "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0", "Mozilla Firefox"},
		{"safari", "Mozilla/5.0 (Macintosh) AppleWebKit/605.1.15 Version/17.0 Safari/605.1.15", "Safari"},
		{"ie", "Mozilla/5.0 (Windows NT 10.0; Trident/7.0; rv:11.0) like Gecko", "Internet Explorer"},
		{"empty", "", "Unknown Browser"},
		{"curl", "curl/8.4.0", "Unknown Browser"},
	}
	for _, tc := range cases {
		if got := BrowserFromUserAgent(tc.agent); got != tc.want {
			t.Errorf("%s: BrowserFromUserAgent = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestFormatPhoneForDisplay(t *testing.T) {
	if got := FormatPhoneForDisplay(""); got != "" {
		t.Errorf("empty input: got %q", got)
	}
	// Unparseable numbers are shown as entered rather than dropped.
	if got := FormatPhoneForDisplay("not-a-number"); got != "not-a-number" {
		t.Errorf("junk input: got %q", got)
	}
}
