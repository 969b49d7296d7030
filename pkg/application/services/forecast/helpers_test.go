package forecast

import (
	"time"

	"github.com/vsinha/forecast/pkg/domain/entities"
)

var (
	groupDE = entities.GroupKey{Country: "DE", Region: "EMEA", Material: "MAT-100"}
	groupUS = entities.GroupKey{Country: "US", Region: "AMER", Material: "MAT-200"}
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// mustRow is a helper for tests - panics on validation error
func mustRow(group entities.GroupKey, year int, month time.Month, value float64) *entities.MonthlyForecastRow {
	row, err := entities.NewMonthlyForecastRow(group, entities.Month{Year: year, Month: month}, value)
	if err != nil {
		panic(err)
	}
	return row
}

func sumDaily(entries []entities.DailyForecastEntry, group entities.GroupKey, month entities.MonthNumber) float64 {
	total := 0.0
	for _, e := range entries {
		if e.Group == group && e.MonthNumber == month {
			total += e.Value
		}
	}
	return total
}

func sumWeekly(entries []entities.WeeklyForecastEntry, group entities.GroupKey, month entities.MonthNumber) float64 {
	total := 0.0
	for _, e := range entries {
		if e.Group == group && e.MonthNumber == month {
			total += e.WeeklyTotal
		}
	}
	return total
}
