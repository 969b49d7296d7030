package entities

import "strings"

// Column names shared by the input loaders and output writers
const (
	ColumnCountry         = "Country"
	ColumnRegion          = "Region"
	ColumnMaterial        = "Material"
	ColumnMonth           = "Month"
	ColumnMonthlyForecast = "Monthly Forecast"
	ColumnDate            = "Date"
	ColumnDayOfWeek       = "Day of Week"
	ColumnDailyForecast   = "Daily Forecast"
	ColumnMonthNumber     = "Month Number"
	ColumnWeekNumber      = "Week Number"
	ColumnWeeklyForecast  = "Weekly Forecast"
	ColumnMonthlyTotal    = "Monthly Total"
	ColumnPercentage      = "PercentageContribution"
)

// GroupColumns are the columns forming a GroupKey
var GroupColumns = []string{ColumnCountry, ColumnRegion, ColumnMaterial}

// UpdatedWeeklyColumns are required in a round-trip percentage table. The
// Weekly Forecast column is needed to rebuild each month total.
var UpdatedWeeklyColumns = []string{
	ColumnCountry,
	ColumnRegion,
	ColumnMaterial,
	ColumnMonthNumber,
	ColumnWeekNumber,
	ColumnPercentage,
	ColumnWeeklyForecast,
}

// NormalizeColumn folds a header for comparison: lower case, trimmed, single spaced
func NormalizeColumn(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// ColumnIndex maps normalized header names to their position. The first
// occurrence of a repeated header wins.
func ColumnIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		key := NormalizeColumn(name)
		if _, exists := index[key]; !exists {
			index[key] = i
		}
	}
	return index
}

// RequireColumns checks that every required column is present in header
func RequireColumns(input string, header []string, required []string) error {
	index := ColumnIndex(header)
	var missing []string
	for _, col := range required {
		if _, ok := index[NormalizeColumn(col)]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnsError{Input: input, Columns: missing}
	}
	return nil
}
