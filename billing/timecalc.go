package billing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DecimalHours converts "H:MM" work time into hours. A missing or non-numeric
// field counts as 0; values are not range checked.
func DecimalHours(workTime string) float64 {
	parts := strings.Split(workTime, ":")
	hours := parseField(parts[0])
	var minutes float64
	if len(parts) > 1 {
		minutes = parseField(parts[1])
	}
	return hours + minutes/60
}

func parseField(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// FormatDuration renders decimal hours as "Xh Ym". A remainder that rounds up
// to 60 minutes is carried into the hour, so 1.999 renders as "2h 0m".
func FormatDuration(decimalHours float64) string {
	h := math.Floor(decimalHours)
	m := math.Round((decimalHours - h) * 60)
	if m >= 60 {
		h++
		m -= 60
	}
	return fmt.Sprintf("%dh %dm", int64(h), int64(m))
}

// FormatMinutes renders a whole number of minutes as "Xh Ym".
func FormatMinutes(totalMinutes int64) string {
	return fmt.Sprintf("%dh %dm", totalMinutes/60, totalMinutes%60)
}

// WorkMinutes returns the whole minutes of an "H:MM" value, as used by the
// per-vehicle report.
func WorkMinutes(workTime string) int64 {
	parts := strings.Split(workTime, ":")
	h := parseField(parts[0])
	var m float64
	if len(parts) > 1 {
		m = parseField(parts[1])
	}
	return int64(math.Round(h*60 + m))
}

// SessionAmount is the billable amount of a session: hours × hourly rate.
func SessionAmount(workTime string, standardRate float64) float64 {
	return DecimalHours(workTime) * standardRate
}

// FormatRupees renders an amount with no decimals, as shown on messages and invoices.
func FormatRupees(amount float64) string {
	return strconv.FormatFloat(roundHalfAway(amount, 0), 'f', 0, 64)
}

// FormatAmount2 renders an amount with two decimals, as used in payment links.
func FormatAmount2(amount float64) string {
	return strconv.FormatFloat(roundHalfAway(amount, 2), 'f', 2, 64)
}

func roundHalfAway(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	r := math.Round(v*p) / p
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}
