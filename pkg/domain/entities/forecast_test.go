package entities

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"
)

func TestMonthlyForecastRow_Validation(t *testing.T) {
	group := GroupKey{Country: "DE", Region: "EMEA", Material: "MAT-100"}
	month := Month{Year: 2024, Month: time.February}

	validRow, err := NewMonthlyForecastRow(group, month, 280)
	if err != nil {
		t.Fatalf("Expected valid row creation to succeed: %v", err)
	}
	if validRow.MonthlyForecast != 280 {
		t.Errorf("Expected forecast 280, got %v", validRow.MonthlyForecast)
	}

	zeroRow, err := NewMonthlyForecastRow(group, month, 0)
	if err != nil {
		t.Fatalf("Expected zero forecast to be accepted: %v", err)
	}
	if zeroRow.MonthlyForecast != 0 {
		t.Errorf("Expected forecast 0, got %v", zeroRow.MonthlyForecast)
	}

	testCases := []struct {
		name        string
		group       GroupKey
		month       Month
		value       float64
		expectError string
	}{
		{"empty country", GroupKey{Region: "EMEA", Material: "M"}, month, 1, "country cannot be empty"},
		{"empty region", GroupKey{Country: "DE", Material: "M"}, month, 1, "region cannot be empty"},
		{"empty material", GroupKey{Country: "DE", Region: "EMEA"}, month, 1, "material cannot be empty"},
		{"negative forecast", group, month, -5, "monthly forecast cannot be negative, got -5"},
		{"NaN forecast", group, month, math.NaN(), "monthly forecast must be a finite number, got NaN"},
		{"infinite forecast", group, month, math.Inf(1), "monthly forecast must be a finite number, got +Inf"},
		{"month out of range", group, Month{Year: 2024, Month: 13}, 1, "malformed month label: month 13 out of range"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewMonthlyForecastRow(tc.group, tc.month, tc.value)
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}

func TestMonth_Previous(t *testing.T) {
	testCases := []struct {
		month    Month
		expected Month
	}{
		{Month{2024, time.March}, Month{2024, time.February}},
		{Month{2024, time.January}, Month{2023, time.December}},
		{Month{2025, time.December}, Month{2025, time.November}},
	}

	for _, tc := range testCases {
		if got := tc.month.Previous(); got != tc.expected {
			t.Errorf("Previous(%s): expected %s, got %s", tc.month, tc.expected, got)
		}
	}
}

func TestMonth_String(t *testing.T) {
	m := Month{Year: 2024, Month: time.February}
	if m.String() != "2024-02" {
		t.Errorf("Expected 2024-02, got %s", m.String())
	}
}

func TestNewMonth_Errors(t *testing.T) {
	if _, err := NewMonth(0, time.May); !errors.Is(err, ErrMalformedMonth) {
		t.Errorf("Expected ErrMalformedMonth for year 0, got %v", err)
	}
	if _, err := NewMonth(2024, 0); !errors.Is(err, ErrMalformedMonth) {
		t.Errorf("Expected ErrMalformedMonth for month 0, got %v", err)
	}
}

func TestBusinessWindow_Contains(t *testing.T) {
	w := BusinessWindow{
		Start: time.Date(2024, 1, 27, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 2, 26, 0, 0, 0, 0, time.UTC),
	}

	if !w.Contains(w.Start) || !w.Contains(w.End) {
		t.Error("Expected window bounds to be contained")
	}
	if w.Contains(w.Start.AddDate(0, 0, -1)) {
		t.Error("Expected day before start to be outside the window")
	}
	if w.Contains(w.End.AddDate(0, 0, 1)) {
		t.Error("Expected day after end to be outside the window")
	}
	if w.CalendarDays() != 31 {
		t.Errorf("Expected 31 calendar days, got %d", w.CalendarDays())
	}
	if w.String() != "2024-01-27..2024-02-26" {
		t.Errorf("Unexpected window string %s", w.String())
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if DaysBetween(a, a.AddDate(0, 0, 10)) != 10 {
		t.Error("Expected 10 days forward")
	}
	if DaysBetween(a, a.AddDate(0, 0, -3)) != -3 {
		t.Error("Expected -3 days backward")
	}
	// Across a leap day
	if DaysBetween(time.Date(2024, 2, 27, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) != 3 {
		t.Error("Expected 3 days across the leap day")
	}
	// Spans longer than time.Duration can hold
	if got := DaysBetween(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2324, 1, 1, 0, 0, 0, 0, time.UTC)); got != 109572 {
		t.Errorf("Expected 109572 days over four centuries, got %d", got)
	}
	if got := DaysBetween(time.Date(1699, 12, 28, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)); got != 118342 {
		t.Errorf("Expected 118342 days, got %d", got)
	}
}

func TestPercentage_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Defined   Percentage `json:"defined"`
		Undefined Percentage `json:"undefined"`
	}{NewPercentage(40), UndefinedPercentage()})
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	if string(data) != `{"defined":40,"undefined":null}` {
		t.Errorf("Unexpected JSON %s", data)
	}

	var p Percentage
	if err := json.Unmarshal([]byte("null"), &p); err != nil || p.Valid {
		t.Errorf("Expected null to decode as undefined, got %+v (%v)", p, err)
	}
	if err := json.Unmarshal([]byte("12.5"), &p); err != nil || !p.Valid || p.Value != 12.5 {
		t.Errorf("Expected 12.5, got %+v (%v)", p, err)
	}
	if UndefinedPercentage().String() != UndefinedLabel {
		t.Errorf("Expected %q label", UndefinedLabel)
	}
}

func TestRequireColumns(t *testing.T) {
	header := []string{" country ", "REGION", "Material", "Month  Number", "Week Number", "Weekly Forecast"}

	err := RequireColumns("weekly upload", header, UpdatedWeeklyColumns)
	var missing *MissingColumnsError
	if !errors.As(err, &missing) {
		t.Fatalf("Expected MissingColumnsError, got %v", err)
	}
	if len(missing.Columns) != 1 || missing.Columns[0] != ColumnPercentage {
		t.Errorf("Expected only %s missing, got %v", ColumnPercentage, missing.Columns)
	}
	if missing.Error() != "weekly upload is missing required columns: PercentageContribution" {
		t.Errorf("Unexpected message: %s", missing.Error())
	}

	header = append(header, "percentagecontribution")
	if err := RequireColumns("weekly upload", header, UpdatedWeeklyColumns); err != nil {
		t.Errorf("Expected all columns present, got %v", err)
	}
}
