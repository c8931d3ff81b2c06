// Package timefmt formats timestamps and durations for display.
package timefmt

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

var frenchRelative = []humanize.RelTimeMagnitude{
	{D: time.Second, Format: "à l'instant", DivBy: time.Second},
	{D: 2 * time.Second, Format: "il y a 1 seconde %s", DivBy: 1},
	{D: time.Minute, Format: "il y a %d secondes %s", DivBy: time.Second},
	{D: 2 * time.Minute, Format: "il y a 1 minute %s", DivBy: 1},
	{D: time.Hour, Format: "il y a %d minutes %s", DivBy: time.Minute},
	{D: 2 * time.Hour, Format: "il y a 1 heure %s", DivBy: 1},
	{D: humanize.Day, Format: "il y a %d heures %s", DivBy: time.Hour},
	{D: 2 * humanize.Day, Format: "il y a 1 jour %s", DivBy: 1},
	{D: humanize.Week, Format: "il y a %d jours %s", DivBy: humanize.Day},
	{D: 2 * humanize.Week, Format: "il y a 1 semaine %s", DivBy: 1},
	{D: humanize.Month, Format: "il y a %d semaines %s", DivBy: humanize.Week},
	{D: 2 * humanize.Month, Format: "il y a 1 mois %s", DivBy: 1},
	{D: humanize.Year, Format: "il y a %d mois %s", DivBy: humanize.Month},
	{D: 18 * humanize.Month, Format: "il y a 1 an %s", DivBy: 1},
	{D: 2 * humanize.Year, Format: "il y a 2 ans %s", DivBy: 1},
	{D: humanize.LongTime, Format: "il y a %d ans %s", DivBy: humanize.Year},
}

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// Relative describes t relative to now, such as "3 minutes ago". Only past
// times are localized for French; future times use the English phrasing.
func Relative(t, now time.Time, locale string) string {
	if locale == "fr" && !t.After(now) {
		return strings.TrimSpace(humanize.CustomRelTime(t, now, "", "", frenchRelative))
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// In converts t to the named IANA zone, returning UTC for unknown zones.
func In(t time.Time, zone string) (time.Time, error) {
	if zone == "" || zone == "UTC" {
		return t.UTC(), nil
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return t.UTC(), fmt.Errorf("load time zone %q: %w", zone, err)
	}
	return t.In(loc), nil
}

// Duration renders d compactly, for example "1h 2m 3s" or "450ms".
func Duration(d time.Duration) string {
	if d < 0 {
		return "-" + Duration(-d)
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	d = d.Round(time.Second)
	hours := int(d / time.Hour)
	minutes := int(d % time.Hour / time.Minute)
	seconds := int(d % time.Minute / time.Second)

	parts := make([]string, 0, 3)
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if seconds > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%ds", seconds))
	}
	return strings.Join(parts, " ")
}

// LongDate renders a localized long date: "January 2, 2026" or
// "2 janvier 2026".
func LongDate(t time.Time, locale string) string {
	if locale == "fr" {
		return fmt.Sprintf("%d %s %d", t.Day(), frenchMonths[t.Month()-1], t.Year())
	}
	return t.Format("January 2, 2006")
}

// Bytes renders a byte count in SI units, such as "1.2 kB".
func Bytes(n uint64) string {
	return humanize.Bytes(n)
}
