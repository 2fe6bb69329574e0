package timecalc_test

import (
	"testing"
	"time"

	"github.com/Tiliavir/purrlog/internal/timecalc"
)

func TestEntryDirName(t *testing.T) {
	ts := time.Date(2026, 2, 27, 8, 32, 10, 0, time.Local)
	got := timecalc.EntryDirName(ts)
	if got != "entry-20260227-083210" {
		t.Errorf("EntryDirName = %q, want %q", got, "entry-20260227-083210")
	}
}

func TestParseEntryDirName(t *testing.T) {
	ts := time.Date(2026, 2, 27, 8, 32, 10, 0, time.Local)
	got, err := timecalc.ParseEntryDirName(timecalc.EntryDirName(ts))
	if err != nil {
		t.Fatalf("ParseEntryDirName: %v", err)
	}
	if !got.Equal(ts) {
		t.Errorf("ParseEntryDirName = %v, want %v", got, ts)
	}
}

func TestIsEntryDirName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"entry-20260227-083210", true},
		{"entry-20260227-0832", false},
		{"entry-2026022a-083210", false},
		{"xentry-20260227-083210", false},
		{"entry-20260227-083210.bak", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := timecalc.IsEntryDirName(tt.name); got != tt.want {
			t.Errorf("IsEntryDirName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestParseEntryDirNameRejectsGarbage(t *testing.T) {
	if _, err := timecalc.ParseEntryDirName("entry-20261399-250000"); err == nil {
		t.Error("expected error for out-of-range date")
	}
	if _, err := timecalc.ParseEntryDirName("notes"); err == nil {
		t.Error("expected error for non-entry name")
	}
}

func TestWeekRange(t *testing.T) {
	// 2026-02-27 is a Friday (week 9).
	fri := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	monday, sunday := timecalc.WeekRange(fri)

	wantMonday := time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC)
	wantSunday := time.Date(2026, 3, 1, 23, 59, 59, 0, time.UTC)

	if !monday.Equal(wantMonday) {
		t.Errorf("WeekRange monday = %v, want %v", monday, wantMonday)
	}
	if !sunday.Equal(wantSunday) {
		t.Errorf("WeekRange sunday = %v, want %v", sunday, wantSunday)
	}
}

func TestWithin(t *testing.T) {
	day := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	from, to := timecalc.StartOfDay(day), timecalc.EndOfDay(day)

	if !timecalc.Within(day, from, to) {
		t.Error("Within: expected day inside its own range")
	}
	if !timecalc.Within(from, from, to) || !timecalc.Within(to, from, to) {
		t.Error("Within: range bounds must be inclusive")
	}
	if timecalc.Within(to.Add(time.Second), from, to) {
		t.Error("Within: expected next midnight outside the range")
	}
}

func TestISOWeekLabel(t *testing.T) {
	fri := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	got := timecalc.ISOWeekLabel(fri)
	if got != "2026-W09" {
		t.Errorf("ISOWeekLabel = %q, want %q", got, "2026-W09")
	}
}
