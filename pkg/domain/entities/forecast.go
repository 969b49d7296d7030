package entities

import (
	"fmt"
	"math"
	"time"
)

// GroupKey identifies one forecast series
type GroupKey struct {
	Country  string `json:"country"`
	Region   string `json:"region"`
	Material string `json:"material"`
}

// String renders the key as Country/Region/Material
func (k GroupKey) String() string {
	return k.Country + "/" + k.Region + "/" + k.Material
}

// Month is a calendar year-month
type Month struct {
	Year  int
	Month time.Month
}

// NewMonth creates a validated Month
func NewMonth(year int, month time.Month) (Month, error) {
	if month < time.January || month > time.December {
		return Month{}, fmt.Errorf("%w: month %d out of range", ErrMalformedMonth, month)
	}
	if year < 1 || year > 9999 {
		return Month{}, fmt.Errorf("%w: year %d out of range", ErrMalformedMonth, year)
	}
	return Month{Year: year, Month: month}, nil
}

// String renders the month as YYYY-MM
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Previous returns the month before m
func (m Month) Previous() Month {
	if m.Month == time.January {
		return Month{Year: m.Year - 1, Month: time.December}
	}
	return Month{Year: m.Year, Month: m.Month - 1}
}

// Day returns the given day of the month at midnight UTC
func (m Month) Day(day int) time.Time {
	return time.Date(m.Year, m.Month, day, 0, 0, 0, 0, time.UTC)
}

// MonthlyForecastRow is one input row of the monthly forecast
type MonthlyForecastRow struct {
	Group           GroupKey
	Month           Month
	MonthlyForecast float64
}

// NewMonthlyForecastRow creates a validated MonthlyForecastRow
func NewMonthlyForecastRow(group GroupKey, month Month, monthlyForecast float64) (*MonthlyForecastRow, error) {
	if group.Country == "" {
		return nil, fmt.Errorf("country cannot be empty")
	}
	if group.Region == "" {
		return nil, fmt.Errorf("region cannot be empty")
	}
	if group.Material == "" {
		return nil, fmt.Errorf("material cannot be empty")
	}
	if math.IsNaN(monthlyForecast) || math.IsInf(monthlyForecast, 0) {
		return nil, fmt.Errorf("monthly forecast must be a finite number, got %v", monthlyForecast)
	}
	if monthlyForecast < 0 {
		return nil, fmt.Errorf("monthly forecast cannot be negative, got %v", monthlyForecast)
	}
	if _, err := NewMonth(month.Year, month.Month); err != nil {
		return nil, err
	}

	return &MonthlyForecastRow{
		Group:           group,
		Month:           month,
		MonthlyForecast: monthlyForecast,
	}, nil
}

// BusinessWindow is the inclusive date range a month's forecast is spread over
type BusinessWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether date falls inside the window, bounds included
func (w BusinessWindow) Contains(date time.Time) bool {
	return !date.Before(w.Start) && !date.After(w.End)
}

// CalendarDays returns the number of calendar days in the window
func (w BusinessWindow) CalendarDays() int {
	return DaysBetween(w.Start, w.End) + 1
}

// String renders the window as start..end
func (w BusinessWindow) String() string {
	return w.Start.Format(DateLayout) + ".." + w.End.Format(DateLayout)
}

// MonthNumber is the 1-based sequence number of a distinct window within a group
type MonthNumber int

// WeekIndex is the week number of a date relative to the run's anchor Monday.
// Dates before the anchor produce zero or negative indices.
type WeekIndex int

// DailyForecastEntry is the forecast share of one business day
type DailyForecastEntry struct {
	Date        time.Time   `json:"date"`
	Group       GroupKey    `json:"group"`
	MonthNumber MonthNumber `json:"month_number"`
	Value       float64     `json:"value"`
}

// DayOfWeek returns the English weekday name of the entry's date
func (e DailyForecastEntry) DayOfWeek() string {
	return e.Date.Weekday().String()
}

// WeeklyForecastEntry is the sum of daily values for one (group, month, week)
type WeeklyForecastEntry struct {
	Group        GroupKey    `json:"group"`
	MonthNumber  MonthNumber `json:"month_number"`
	WeekIndex    WeekIndex   `json:"week_number"`
	WeeklyTotal  float64     `json:"weekly_forecast"`
	MonthlyTotal float64     `json:"monthly_total"`
	Percentage   Percentage  `json:"percentage_contribution"`
}

// UpdatedWeeklyForecastEntry is a user-edited weekly row of the round trip
type UpdatedWeeklyForecastEntry struct {
	Group          GroupKey
	MonthNumber    MonthNumber
	WeekIndex      WeekIndex
	Percentage     Percentage
	WeeklyForecast float64
}

// DateLayout is the layout used for dates in every table
const DateLayout = "2006-01-02"

// DaysBetween returns the whole number of days from a to b, both taken at UTC midnight
func DaysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int((b.Unix() - a.Unix()) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60
