package dto

import (
	"time"

	"github.com/vsinha/forecast/pkg/domain/entities"
)

// ConversionResult contains the complete output of a monthly-to-weekly run
type ConversionResult struct {
	Anchor  time.Time                      `json:"anchor"`
	Groups  []entities.GroupKey            `json:"groups"`
	Windows []WindowSummary                `json:"windows"`
	Daily   []entities.DailyForecastEntry  `json:"daily"`
	Weekly  []entities.WeeklyForecastEntry `json:"weekly"`
	Pivot   *PivotTable                    `json:"pivot"`

	// UndefinedMonths lists the (group, month) buckets whose total is zero,
	// so their percentage contributions are undefined
	UndefinedMonths []MonthRef `json:"undefined_months,omitempty"`
}

// WindowSummary describes how one month's forecast was spread over its window
type WindowSummary struct {
	Group           entities.GroupKey       `json:"group"`
	MonthNumber     entities.MonthNumber    `json:"month_number"`
	Month           string                  `json:"month"`
	Window          entities.BusinessWindow `json:"window"`
	BusinessDays    int                     `json:"business_days"`
	MonthlyForecast float64                 `json:"monthly_forecast"`
	DailyValue      float64                 `json:"daily_value"`
	DuplicateRows   int                     `json:"duplicate_rows,omitempty"`
	OverlappingDays int                     `json:"overlapping_days,omitempty"`
}

// MonthRef points at one (group, month) bucket
type MonthRef struct {
	Group       entities.GroupKey    `json:"group"`
	MonthNumber entities.MonthNumber `json:"month_number"`
}

// PivotColumn is one (month, week) column of the wide weekly table
type PivotColumn struct {
	MonthNumber entities.MonthNumber `json:"month_number"`
	WeekIndex   entities.WeekIndex   `json:"week_number"`
}

// PivotCell holds the weekly value and contribution of a column; Present is
// false where the group has no entry for that column
type PivotCell struct {
	WeeklyTotal float64             `json:"weekly_forecast"`
	Percentage  entities.Percentage `json:"percentage_contribution"`
	Present     bool                `json:"present"`
}

// PivotRow is one group of the wide weekly table, one cell per column
type PivotRow struct {
	Group entities.GroupKey `json:"group"`
	Cells []PivotCell       `json:"cells"`
}

// PivotTable is the weekly forecast keyed by group and columned by month and week
type PivotTable struct {
	Columns []PivotColumn `json:"columns"`
	Rows    []PivotRow    `json:"rows"`
}

// AdjustmentResult pairs the uploaded weekly rows with their recomputed values
type AdjustmentResult struct {
	Original []entities.WeeklyForecastEntry `json:"original"`
	Adjusted []entities.WeeklyForecastEntry `json:"adjusted"`
}
