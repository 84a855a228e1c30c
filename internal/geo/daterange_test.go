package geo

import (
	"testing"
	"time"
)

func TestCalculateRangeContainsAnchor(t *testing.T) {
	anchors := []time.Time{
		time.Date(2025, 6, 15, 13, 30, 0, 0, time.Local),
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local),
		time.Date(2025, 12, 31, 23, 59, 59, 0, time.Local),
		time.Date(2024, 2, 29, 12, 0, 0, 0, time.Local),
	}
	modes := []Mode{ModeToday, ModeWeek, ModeMonth}

	for _, anchor := range anchors {
		for _, mode := range modes {
			r := CalculateRange(anchor, mode)
			if anchor.Before(r.Start) || anchor.After(r.End) {
				t.Errorf("%s window of %v does not contain the anchor: [%v, %v]",
					mode, anchor, r.Start, r.End)
			}
		}
	}
}

func TestCalculateRangeSpans(t *testing.T) {
	anchor := time.Date(2025, 6, 18, 9, 15, 0, 0, time.Local)

	day := CalculateRange(anchor, ModeToday)
	if got, want := day.End.Sub(day.Start), 24*time.Hour-time.Millisecond; got != want {
		t.Errorf("today span: expected %v, got %v", want, got)
	}

	week := CalculateRange(anchor, ModeWeek)
	if got, want := week.End.Sub(week.Start), 7*24*time.Hour-time.Millisecond; got != want {
		t.Errorf("week span: expected %v, got %v", want, got)
	}

	month := CalculateRange(anchor, ModeMonth)
	if got, want := month.End.Sub(month.Start), 30*24*time.Hour-time.Millisecond; got != want {
		t.Errorf("june span: expected %v, got %v", want, got)
	}
}

func TestCalculateRangeWeekScenario(t *testing.T) {
	// 2025-06-15 is a Sunday, so the week window starts on the anchor day.
	anchor := time.Date(2025, 6, 15, 10, 0, 0, 0, time.Local)
	r := CalculateRange(anchor, ModeWeek)

	wantStart := time.Date(2025, 6, 15, 0, 0, 0, 0, time.Local)
	wantEnd := time.Date(2025, 6, 21, 23, 59, 59, int(999*time.Millisecond), time.Local)
	if !r.Start.Equal(wantStart) {
		t.Errorf("week start: expected %v, got %v", wantStart, r.Start)
	}
	if !r.End.Equal(wantEnd) {
		t.Errorf("week end: expected %v, got %v", wantEnd, r.End)
	}
}

func TestCalculateRangeMonthEnds(t *testing.T) {
	tests := []struct {
		name    string
		anchor  time.Time
		lastDay int
	}{
		{"Thirty Days", time.Date(2025, 6, 10, 0, 0, 0, 0, time.Local), 30},
		{"Thirty One Days", time.Date(2025, 7, 4, 0, 0, 0, 0, time.Local), 31},
		{"February", time.Date(2025, 2, 14, 0, 0, 0, 0, time.Local), 28},
		{"Leap February", time.Date(2024, 2, 14, 0, 0, 0, 0, time.Local), 29},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := CalculateRange(tt.anchor, ModeMonth)
			if r.Start.Day() != 1 {
				t.Errorf("month start day: expected 1, got %d", r.Start.Day())
			}
			if r.End.Day() != tt.lastDay {
				t.Errorf("month end day: expected %d, got %d", tt.lastDay, r.End.Day())
			}
		})
	}
}

func TestNextAndPreviousPeriod(t *testing.T) {
	anchor := time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)

	tests := []struct {
		mode Mode
		next time.Time
		prev time.Time
	}{
		{ModeToday, anchor.AddDate(0, 0, 1), anchor.AddDate(0, 0, -1)},
		{ModeWeek, anchor.AddDate(0, 0, 7), anchor.AddDate(0, 0, -7)},
		{ModeMonth, time.Date(2025, 7, 15, 12, 0, 0, 0, time.Local), time.Date(2025, 5, 15, 12, 0, 0, 0, time.Local)},
	}

	for _, tt := range tests {
		if got := NextPeriod(anchor, tt.mode); !got.Equal(tt.next) {
			t.Errorf("NextPeriod(%s): expected %v, got %v", tt.mode, tt.next, got)
		}
		if got := PreviousPeriod(anchor, tt.mode); !got.Equal(tt.prev) {
			t.Errorf("PreviousPeriod(%s): expected %v, got %v", tt.mode, tt.prev, got)
		}
	}
}

func TestRangeContains(t *testing.T) {
	r := CalculateRange(time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local), ModeWeek)

	if !r.Contains(time.Time{}) {
		t.Error("zero time (undated legacy record) must always be in range")
	}
	if !r.Contains(r.Start) || !r.Contains(r.End) {
		t.Error("range must be inclusive at both boundaries")
	}
	if r.Contains(r.Start.Add(-time.Millisecond)) {
		t.Error("instant before start must be out of range")
	}
	if r.Contains(r.End.Add(time.Millisecond)) {
		t.Error("instant after end must be out of range")
	}
}

func TestParseMode(t *testing.T) {
	if mode, err := ParseMode(""); err != nil || mode != ModeWeek {
		t.Errorf("empty mode: expected week default, got %v, %v", mode, err)
	}
	if _, err := ParseMode("fortnight"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestRangeLabel(t *testing.T) {
	r := CalculateRange(time.Date(2025, 6, 15, 0, 0, 0, 0, time.Local), ModeWeek)
	if got, want := r.Label(ModeWeek), "Jun 15 - Jun 21, 2025"; got != want {
		t.Errorf("week label: expected %q, got %q", want, got)
	}
	if got, want := r.Label(ModeToday), "Jun 15, 2025"; got != want {
		t.Errorf("today label: expected %q, got %q", want, got)
	}
	month := CalculateRange(time.Date(2025, 6, 15, 0, 0, 0, 0, time.Local), ModeMonth)
	if got, want := month.Label(ModeMonth), "June 2025"; got != want {
		t.Errorf("month label: expected %q, got %q", want, got)
	}
}
