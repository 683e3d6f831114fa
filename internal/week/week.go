// Package week computes the Monday-start week window shown on the
// dinners page.
package week

import "time"

// DateFormat is the ISO calendar date layout used throughout the app.
const DateFormat = "2006-01-02"

// Start returns midnight on the Monday on or before ref.
// Go numbers Sunday as weekday 0, so the offset back to Monday is
// (weekday+6) mod 7 — a plain weekday-1 would send Sunday forward.
func Start(ref time.Time) time.Time {
	d := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// Dates returns the seven ISO dates of the week starting at start,
// ascending with no gaps.
func Dates(start time.Time) []string {
	dates := make([]string, 7)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i).Format(DateFormat)
	}
	return dates
}

// Prev returns the start of the week before start.
func Prev(start time.Time) time.Time {
	return start.AddDate(0, 0, -7)
}

// Next returns the start of the week after start.
func Next(start time.Time) time.Time {
	return start.AddDate(0, 0, 7)
}

// Parse parses an ISO calendar date. It rejects anything that does not
// round-trip through DateFormat, so "2024-6-3" and garbage both fail.
func Parse(date string) (time.Time, error) {
	return time.ParseInLocation(DateFormat, date, time.Local)
}
