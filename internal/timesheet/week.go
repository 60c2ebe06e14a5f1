package timesheet

import (
	"strings"
	"time"

	"github.com/frahmantamala/hours-portal/internal"
)

const (
	// DateLayout is the ISO date form used for week keys and entry keys.
	DateLayout = "2006-01-02"
	// ShortLayout renders M/D/YY for spreadsheet rows and email labels.
	ShortLayout = "1/2/06"

	TrackedDays = 6
)

// ParseDate parses an ISO date as a UTC calendar day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, internal.ErrInvalidDate.WithCause(err)
	}
	return t, nil
}

// MondayOf snaps t to the Monday of its week, dropping the time of day.
func MondayOf(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

func FormatShort(t time.Time) string {
	return t.Format(ShortLayout)
}

// NormalizeWeek parses any date and returns the week key of its Monday.
func NormalizeWeek(s string) (string, error) {
	t, err := ParseDate(s)
	if err != nil {
		return "", err
	}
	return DateKey(MondayOf(t)), nil
}

// PreviousWeek is the week key of the Monday before the week containing now.
func PreviousWeek(now time.Time) string {
	return DateKey(MondayOf(now).AddDate(0, 0, -7))
}

// WeekDays returns Monday through Saturday of the given week.
func WeekDays(week string) ([]time.Time, error) {
	start, err := ParseDate(week)
	if err != nil {
		return nil, err
	}
	start = MondayOf(start)
	days := make([]time.Time, TrackedDays)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days, nil
}

// WeekLabel is the short display form of a week's Monday.
func WeekLabel(week string) string {
	t, err := ParseDate(week)
	if err != nil {
		return week
	}
	return FormatShort(MondayOf(t))
}

func inWeek(week, date string) (string, error) {
	d, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	start, err := ParseDate(week)
	if err != nil {
		return "", err
	}
	diff := int(d.Sub(start).Hours() / 24)
	if diff < 0 || diff >= TrackedDays {
		return "", internal.ErrDateOutsideWeek
	}
	return DateKey(d), nil
}
