package timesheet

import (
	"fmt"
	"math"

	"github.com/frahmantamala/hours-portal/internal"
)

// WeeklyTimeSheet holds one employee's hours for one week. Entries map an
// ISO date to hours; a date recorded as 0 is kept so it can be displayed.
type WeeklyTimeSheet struct {
	EmployeeID    string             `json:"employee_id"`
	WeekStartDate string             `json:"week_start_date"`
	Entries       map[string]float64 `json:"entries"`
	Submitted     bool               `json:"submitted"`
}

// MaxDailyHours caps a single day's entry.
const MaxDailyHours = 24

// Total sums the hours of every entry in the sheet.
func (s WeeklyTimeSheet) Total() float64 {
	var total float64
	for _, h := range s.Entries {
		total += h
	}
	return total
}

// Clone returns a copy that shares no map with the receiver.
func (s WeeklyTimeSheet) Clone() WeeklyTimeSheet {
	cp := s
	cp.Entries = make(map[string]float64, len(s.Entries))
	for k, v := range s.Entries {
		cp.Entries[k] = v
	}
	return cp
}

func (s WeeklyTimeSheet) matches(employeeID, week string) bool {
	return s.EmployeeID == employeeID && s.WeekStartDate == week
}

// Validate checks a sheet read back from storage: the week key must be a
// Monday and every entry a valid day of that week with valid hours.
func (s WeeklyTimeSheet) Validate() error {
	if s.EmployeeID == "" {
		return internal.NewValidationError("time sheet has no employee", internal.ErrCodeValidationFailed)
	}
	key, err := NormalizeWeek(s.WeekStartDate)
	if err != nil {
		return err
	}
	if key != s.WeekStartDate {
		return internal.ErrInvalidDate
	}
	for date, hours := range s.Entries {
		if dateKey, err := inWeek(key, date); err != nil {
			return err
		} else if dateKey != date {
			return internal.ErrInvalidDate
		}
		if err := ValidateHours(hours); err != nil {
			return err
		}
	}
	return nil
}

// ValidateHours accepts a number between 0 and MaxDailyHours.
func ValidateHours(hours float64) error {
	if math.IsNaN(hours) || hours < 0 || hours > MaxDailyHours {
		return internal.ErrInvalidHours
	}
	return nil
}

// Store is an immutable collection of time sheets keyed by
// (employee, week). Mutating operations return a new Store and leave the
// receiver untouched.
type Store struct {
	sheets []WeeklyTimeSheet
}

// ValidateSheets validates every sheet and rejects a repeated (employee, week) key.
func ValidateSheets(sheets []WeeklyTimeSheet) error {
	seen := make(map[[2]string]struct{}, len(sheets))
	for _, sheet := range sheets {
		if err := sheet.Validate(); err != nil {
			return fmt.Errorf("sheet %s/%s: %w", sheet.EmployeeID, sheet.WeekStartDate, err)
		}
		key := [2]string{sheet.EmployeeID, sheet.WeekStartDate}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("sheet %s/%s: duplicate week", sheet.EmployeeID, sheet.WeekStartDate)
		}
		seen[key] = struct{}{}
	}
	return nil
}

func NewStore(sheets []WeeklyTimeSheet) Store {
	out := make([]WeeklyTimeSheet, len(sheets))
	for i, s := range sheets {
		out[i] = s.Clone()
	}
	return Store{sheets: out}
}

// Sheets returns a deep copy of every sheet in insertion order.
func (s Store) Sheets() []WeeklyTimeSheet {
	return NewStore(s.sheets).sheets
}

func (s Store) Len() int {
	return len(s.sheets)
}

func (s Store) index(employeeID, week string) int {
	for i, sheet := range s.sheets {
		if sheet.matches(employeeID, week) {
			return i
		}
	}
	return -1
}

// Find returns a copy of the sheet for (employeeID, week); week may be any day of the week.
func (s Store) Find(employeeID, week string) (WeeklyTimeSheet, bool) {
	key, err := NormalizeWeek(week)
	if err != nil {
		return WeeklyTimeSheet{}, false
	}
	if i := s.index(employeeID, key); i >= 0 {
		return s.sheets[i].Clone(), true
	}
	return WeeklyTimeSheet{}, false
}

// GetEntry returns the hours recorded for date, and whether anything was recorded.
func (s Store) GetEntry(employeeID, week, date string) (float64, bool) {
	sheet, ok := s.Find(employeeID, week)
	if !ok {
		return 0, false
	}
	key, err := NormalizeDate(date)
	if err != nil {
		return 0, false
	}
	h, ok := sheet.Entries[key]
	return h, ok
}

// UpsertHours records hours for date in the (employeeID, week) sheet,
// creating the sheet on first entry. Invalid input leaves the store untouched.
func (s Store) UpsertHours(employeeID, week, date string, hours float64) (Store, error) {
	if err := ValidateHours(hours); err != nil {
		return s, err
	}
	key, err := NormalizeWeek(week)
	if err != nil {
		return s, err
	}
	dateKey, err := inWeek(key, date)
	if err != nil {
		return s, err
	}

	next := make([]WeeklyTimeSheet, len(s.sheets), len(s.sheets)+1)
	copy(next, s.sheets)

	if i := s.index(employeeID, key); i >= 0 {
		sheet := s.sheets[i].Clone()
		sheet.Entries[dateKey] = hours
		next[i] = sheet
	} else {
		next = append(next, WeeklyTimeSheet{
			EmployeeID:    employeeID,
			WeekStartDate: key,
			Entries:       map[string]float64{dateKey: hours},
			Submitted:     false,
		})
	}

	return Store{sheets: next}, nil
}

// WeeklyTotal sums every entry for the sheet, or 0 when there is no sheet.
func (s Store) WeeklyTotal(employeeID, week string) float64 {
	sheet, ok := s.Find(employeeID, week)
	if !ok {
		return 0
	}
	return sheet.Total()
}

// MarkSubmitted flags the given employees' sheets for week as submitted.
func (s Store) MarkSubmitted(week string, employeeIDs []string) Store {
	key, err := NormalizeWeek(week)
	if err != nil {
		return s
	}
	next := make([]WeeklyTimeSheet, len(s.sheets))
	copy(next, s.sheets)
	for _, id := range employeeIDs {
		if i := s.index(id, key); i >= 0 && !next[i].Submitted {
			sheet := next[i].Clone()
			sheet.Submitted = true
			next[i] = sheet
		}
	}
	return Store{sheets: next}
}

// NormalizeDate canonicalises an ISO date string.
func NormalizeDate(date string) (string, error) {
	d, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return DateKey(d), nil
}
