package timecalc

import (
	"fmt"
	"regexp"
	"time"
)

const (
	// EntryPrefix starts every entry directory name.
	EntryPrefix = "entry-"
	stampLayout = "20060102-150405"
)

var entryDirRe = regexp.MustCompile(`^entry-(\d{8}-\d{6})$`)

// EntryDirName encodes t (local time) as entry-YYYYMMDD-HHMMSS.
func EntryDirName(t time.Time) string {
	return EntryPrefix + t.Local().Format(stampLayout)
}

// IsEntryDirName reports whether name follows the entry-YYYYMMDD-HHMMSS convention.
func IsEntryDirName(name string) bool {
	return entryDirRe.MatchString(name)
}

// ParseEntryDirName decodes the local time carried by an entry directory name.
func ParseEntryDirName(name string) (time.Time, error) {
	m := entryDirRe.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, fmt.Errorf("%q is not an entry directory name", name)
	}
	t, err := time.ParseInLocation(stampLayout, m[1], time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad entry timestamp in %q: %w", name, err)
	}
	return t, nil
}

// LoggedOn formats t the way the "logged on" line of an index shows it.
func LoggedOn(t time.Time) string {
	return t.Local().Format("Mon Jan 2 15:04:05 2006")
}

// WeekRange returns the Monday and Sunday of the ISO week containing t.
func WeekRange(t time.Time) (time.Time, time.Time) {
	// Go's weekday: Sunday=0, Monday=1, …, Saturday=6
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7 // treat Sunday as 7 (ISO)
	}
	monday := t.AddDate(0, 0, -(wd - 1))
	monday = time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
	sunday := monday.AddDate(0, 0, 6)
	sunday = time.Date(sunday.Year(), sunday.Month(), sunday.Day(), 23, 59, 59, 0, t.Location())
	return monday, sunday
}

// ISOWeekLabel returns a label like "2026-W09".
func ISOWeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59 of the same day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// Within reports whether t falls in [from, to] inclusive.
func Within(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}
