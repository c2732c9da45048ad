package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/ttacon/libphonenumber"
)

var CountryCode = "MM"

// OrdinalDay renders a day of month as "1st", "2nd", "3rd", "5th", "21st"...
// 11-13 always take "th".
func OrdinalDay(day int) string {
	suffix := "th"
	if day%100 < 11 || day%100 > 13 {
		switch day % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", day, suffix)
}

// FormatMoney renders an amount with thousands grouping and two decimals,
// e.g. 1200 -> "1,200.00".
func FormatMoney(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)

	negative := strings.HasPrefix(fixed, "-")
	if negative {
		fixed = fixed[1:]
	}
	parts := strings.SplitN(fixed, ".", 2)
	intPart := parts[0]

	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(r)
	}

	out := grouped.String() + "." + parts[1]
	if negative {
		out = "-" + out
	}
	return out
}

// MonthsBetween returns the tenancy duration in whole months. The end date
// is the last day of the tenancy and counts inclusively: 1 January through
// 31 December of the same year is 12 months.
func MonthsBetween(start, end time.Time) int {
	last := end.AddDate(0, 0, 1)
	return (last.Year()-start.Year())*12 + int(last.Month()) - int(start.Month())
}

// browser signatures ordered most specific first: Edge and Opera embed
// "Chrome" in their agent strings, Chrome embeds "Safari".
var browserSignatures = []struct {
	token string
	name  string
}{
	{"Edg", "Microsoft Edge"},
	{"OPR", "Opera"},
	{"Opera", "Opera"},
	{"Firefox", "Mozilla Firefox"},
	{"Chrome", "Google Chrome"},
	{"Safari", "Safari"},
	{"MSIE", "Internet Explorer"},
	{"Trident", "Internet Explorer"},
}

func BrowserFromUserAgent(userAgent string) string {
	for _, sig := range browserSignatures {
		if strings.Contains(userAgent, sig.token) {
			return sig.name
		}
	}
	return "Unknown Browser"
}

// FormatPhoneForDisplay renders a phone number in international format for
// document output. Unparseable numbers are shown as entered.
func FormatPhoneForDisplay(phoneNumber string) string {
	if strings.TrimSpace(phoneNumber) == "" {
		return ""
	}
	p, err := libphonenumber.Parse(phoneNumber, CountryCode)
	if err != nil || !libphonenumber.IsValidNumber(p) {
		return phoneNumber
	}
	return libphonenumber.Format(p, libphonenumber.INTERNATIONAL)
}

func NewTrue() *bool {
	b := true
	return &b
}

func NewFalse() *bool {
	b := false
	return &b
}
