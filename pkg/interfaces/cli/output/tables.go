package output

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vsinha/forecast/pkg/application/dto"
	"github.com/vsinha/forecast/pkg/domain/entities"
)

// table is a rendered result set. Cells hold string, int, float64,
// entities.Percentage or nil for an empty cell.
type table struct {
	name   string
	header []string
	rows   [][]any
}

// records renders every cell as text, header first
func (t table) records() [][]string {
	records := make([][]string, 0, len(t.rows)+1)
	records = append(records, t.header)
	for _, row := range t.rows {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = formatCell(v)
		}
		records = append(records, record)
	}
	return records
}

// formatNumber renders v without exponent or trailing zeros
func formatNumber(v float64) string {
	return decimal.NewFromFloat(v).String()
}

func formatPercentage(p entities.Percentage) string {
	if !p.Valid {
		return entities.UndefinedLabel
	}
	return formatNumber(p.Value)
}

func formatCell(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case float64:
		return formatNumber(c)
	case entities.Percentage:
		return formatPercentage(c)
	default:
		return fmt.Sprint(c)
	}
}

func groupCells(g entities.GroupKey) []any {
	return []any{g.Country, g.Region, g.Material}
}

func dailyTable(daily []entities.DailyForecastEntry) table {
	t := table{
		name: "Daily",
		header: []string{
			entities.ColumnCountry, entities.ColumnRegion, entities.ColumnMaterial,
			entities.ColumnMonthNumber, entities.ColumnDate, entities.ColumnDayOfWeek, entities.ColumnDailyForecast,
		},
		rows: make([][]any, 0, len(daily)),
	}
	for _, e := range daily {
		row := append(groupCells(e.Group),
			int(e.MonthNumber), e.Date.Format(entities.DateLayout), e.DayOfWeek(), e.Value)
		t.rows = append(t.rows, row)
	}
	return t
}

func weeklyTable(weekly []entities.WeeklyForecastEntry) table {
	t := table{
		name: "Weekly",
		header: []string{
			entities.ColumnCountry, entities.ColumnRegion, entities.ColumnMaterial,
			entities.ColumnMonthNumber, entities.ColumnWeekNumber,
			entities.ColumnWeeklyForecast, entities.ColumnMonthlyTotal, entities.ColumnPercentage,
		},
		rows: make([][]any, 0, len(weekly)),
	}
	for _, e := range weekly {
		row := append(groupCells(e.Group),
			int(e.MonthNumber), int(e.WeekIndex), e.WeeklyTotal, e.MonthlyTotal, e.Percentage)
		t.rows = append(t.rows, row)
	}
	return t
}

// pivotColumnName labels one value of a pivot column, e.g. "M1 W3 Weekly Forecast"
func pivotColumnName(col dto.PivotColumn, value string) string {
	return fmt.Sprintf("M%d W%d %s", col.MonthNumber, col.WeekIndex, value)
}

// pivotTable lays the weekly forecast out one row per group with a weekly
// value and a percentage column per (month, week)
func pivotTable(pivot *dto.PivotTable) table {
	t := table{
		name:   "Pivot",
		header: []string{entities.ColumnCountry, entities.ColumnRegion, entities.ColumnMaterial},
	}
	if pivot == nil {
		return t
	}

	for _, col := range pivot.Columns {
		t.header = append(t.header,
			pivotColumnName(col, entities.ColumnWeeklyForecast),
			pivotColumnName(col, entities.ColumnPercentage))
	}

	t.rows = make([][]any, 0, len(pivot.Rows))
	for _, r := range pivot.Rows {
		row := groupCells(r.Group)
		for _, cell := range r.Cells {
			if !cell.Present {
				row = append(row, nil, nil)
				continue
			}
			row = append(row, cell.WeeklyTotal, cell.Percentage)
		}
		t.rows = append(t.rows, row)
	}
	return t
}

func windowTable(windows []dto.WindowSummary) table {
	t := table{
		name: "Windows",
		header: []string{
			entities.ColumnCountry, entities.ColumnRegion, entities.ColumnMaterial,
			entities.ColumnMonthNumber, entities.ColumnMonth, "Window Start", "Window End",
			"Business Days", entities.ColumnMonthlyForecast, entities.ColumnDailyForecast,
		},
		rows: make([][]any, 0, len(windows)),
	}
	for _, w := range windows {
		row := append(groupCells(w.Group),
			int(w.MonthNumber), w.Month,
			w.Window.Start.Format(entities.DateLayout), w.Window.End.Format(entities.DateLayout),
			w.BusinessDays, w.MonthlyForecast, w.DailyValue)
		t.rows = append(t.rows, row)
	}
	return t
}
