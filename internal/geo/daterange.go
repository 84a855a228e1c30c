package geo

import (
	"fmt"
	"time"
)

// Mode selects the date window size.
type Mode string

const (
	ModeToday Mode = "today"
	ModeWeek  Mode = "week"
	ModeMonth Mode = "month"
)

// ParseMode validates a mode string, defaulting empty input to week.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeToday, ModeWeek, ModeMonth:
		return Mode(s), nil
	case "":
		return ModeWeek, nil
	default:
		return "", fmt.Errorf("invalid date range mode: %q", s)
	}
}

// Range is an inclusive [Start, End] window.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// CalculateRange computes the mode-aligned window containing anchor: the day
// itself, the Sunday-through-Saturday week, or the calendar month, each
// running from midnight to 23:59:59.999 in the anchor's location.
func CalculateRange(anchor time.Time, mode Mode) Range {
	loc := anchor.Location()
	y, m, d := anchor.Date()

	switch mode {
	case ModeToday:
		start := time.Date(y, m, d, 0, 0, 0, 0, loc)
		return Range{Start: start, End: endOfDay(start)}
	case ModeWeek:
		start := time.Date(y, m, d-int(anchor.Weekday()), 0, 0, 0, 0, loc)
		return Range{Start: start, End: endOfDay(start.AddDate(0, 0, 6))}
	default: // month
		start := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		// Day zero of the next month normalizes to this month's last day.
		end := time.Date(y, m+1, 0, 23, 59, 59, int(999*time.Millisecond), loc)
		return Range{Start: start, End: end}
	}
}

// NextPeriod advances the anchor by one day, seven days, or one calendar
// month.
func NextPeriod(anchor time.Time, mode Mode) time.Time {
	switch mode {
	case ModeToday:
		return anchor.AddDate(0, 0, 1)
	case ModeWeek:
		return anchor.AddDate(0, 0, 7)
	default:
		return anchor.AddDate(0, 1, 0)
	}
}

// PreviousPeriod retreats the anchor by one day, seven days, or one calendar
// month.
func PreviousPeriod(anchor time.Time, mode Mode) time.Time {
	switch mode {
	case ModeToday:
		return anchor.AddDate(0, 0, -1)
	case ModeWeek:
		return anchor.AddDate(0, 0, -7)
	default:
		return anchor.AddDate(0, -1, 0)
	}
}

// Contains reports whether t falls inside the window. A zero time is always
// in range: undated legacy records are never filtered out.
func (r Range) Contains(t time.Time) bool {
	if t.IsZero() {
		return true
	}
	return !t.Before(r.Start) && !t.After(r.End)
}

// Label renders the window the way the calendar header shows it.
func (r Range) Label(mode Mode) string {
	switch mode {
	case ModeToday:
		return r.Start.Format("Jan 2, 2006")
	case ModeWeek:
		return r.Start.Format("Jan 2") + " - " + r.End.Format("Jan 2, 2006")
	default:
		return r.Start.Format("January 2006")
	}
}

func endOfDay(dayStart time.Time) time.Time {
	y, m, d := dayStart.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), dayStart.Location())
}
