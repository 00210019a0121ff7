package budget

import (
	"math"
	"time"
)

// Period is a calendar month
type Period struct {
	Year  int
	Month int
}

// NewPeriod validates year and month
func NewPeriod(year, month int) (Period, error) {
	if month < 1 || month > 12 || year <= 2000 {
		return Period{}, ErrInvalidPeriod
	}
	return Period{Year: year, Month: month}, nil
}

// CurrentPeriod returns the month containing now in loc
func CurrentPeriod(now time.Time, loc *time.Location) Period {
	n := now.In(loc)
	return Period{Year: n.Year(), Month: int(n.Month())}
}

func (p Period) start(loc *time.Location) time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, loc)
}

// Window returns the month bounds in Unix milliseconds. Both ends are
// inclusive: the last day ends at 23:59:59.000.
func (p Period) Window(loc *time.Location) (from, to int64) {
	return MonthWindow(p.Year, p.Month, loc)
}

// MonthWindow returns [first day 00:00:00.000, last day 23:59:59.000] in
// Unix milliseconds for the month in loc.
func MonthWindow(year, month int, loc *time.Location) (from, to int64) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	lastDay := start.AddDate(0, 1, -1)
	end := time.Date(lastDay.Year(), lastDay.Month(), lastDay.Day(), 23, 59, 59, 0, loc)
	return start.UnixMilli(), end.UnixMilli()
}

func (p Period) DaysInMonth() int {
	return time.Date(p.Year, time.Month(p.Month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthName is the full English month name
func (p Period) MonthName() string {
	return time.Month(p.Month).String()
}

// ShortMonthName is the three-letter English month name
func (p Period) ShortMonthName() string {
	return time.Month(p.Month).String()[:3]
}

// AddMonths shifts the period by n months, n may be negative
func (p Period) AddMonths(n int) Period {
	t := time.Date(p.Year, time.Month(p.Month)+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	return Period{Year: t.Year(), Month: int(t.Month())}
}

// Progress describes how far into a month a point in time is
type Progress struct {
	DaysInMonth        int     `json:"daysInMonth"`
	DaysElapsed        int     `json:"daysElapsed"`
	DaysRemaining      int     `json:"daysRemaining"`
	PercentageComplete float64 `json:"percentageComplete"`
}

// Progress measures now against the period. Inside the month the elapsed day
// count is today's day of month; a past month counts as fully elapsed and a
// future month as one day in.
func (p Period) Progress(now time.Time, loc *time.Location) Progress {
	n := now.In(loc)
	days := p.DaysInMonth()

	elapsed := 1
	switch {
	case n.Year() == p.Year && int(n.Month()) == p.Month:
		elapsed = n.Day()
	case n.After(p.start(loc)):
		elapsed = days
	}

	remaining := days - elapsed
	if remaining < 0 {
		remaining = 0
	}

	return Progress{
		DaysInMonth:        days,
		DaysElapsed:        elapsed,
		DaysRemaining:      remaining,
		PercentageComplete: float64(elapsed) / float64(days) * 100,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
