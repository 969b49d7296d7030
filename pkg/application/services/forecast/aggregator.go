package forecast

import (
	"fmt"
	"sort"
	"time"

	"github.com/vsinha/forecast/pkg/application/dto"
	"github.com/vsinha/forecast/pkg/domain/entities"
	applog "github.com/vsinha/forecast/pkg/infrastructure/log"
)

// AnchorDay is the December day of the year before the earliest input year
// from which the anchor Monday is found
const AnchorDay = 27

// AnchorMonday returns the first Monday on or after December 27 of minYear-1.
// Week 1 starts on that Monday for every group of a run.
func AnchorMonday(minYear int) time.Time {
	d := time.Date(minYear-1, time.December, AnchorDay, 0, 0, 0, 0, time.UTC)
	offset := (int(time.Monday) - int(d.Weekday()) + 7) % 7
	return d.AddDate(0, 0, offset)
}

// AnchorForRows computes the run anchor from the earliest year among rows
func AnchorForRows(rows []*entities.MonthlyForecastRow) (time.Time, error) {
	if len(rows) == 0 {
		return time.Time{}, fmt.Errorf("no monthly forecast rows to anchor weeks on")
	}
	minYear := rows[0].Month.Year
	for _, row := range rows[1:] {
		if row.Month.Year < minYear {
			minYear = row.Month.Year
		}
	}
	return AnchorMonday(minYear), nil
}

// WeekIndexOf returns floor(days since anchor / 7) + 1. Dates before the
// anchor yield zero or negative indices and are kept as is.
func WeekIndexOf(date, anchor time.Time) entities.WeekIndex {
	return entities.WeekIndex(floorDiv(entities.DaysBetween(anchor, date), 7) + 1)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// PercentageOf returns 100 * weekly / monthly, or ErrUndefinedPercentage when monthly is zero
func PercentageOf(weekly, monthly float64) (float64, error) {
	if monthly == 0 {
		return 0, entities.ErrUndefinedPercentage
	}
	return 100 * weekly / monthly, nil
}

type weekKey struct {
	group       entities.GroupKey
	monthNumber entities.MonthNumber
	week        entities.WeekIndex
}

type monthKey struct {
	group       entities.GroupKey
	monthNumber entities.MonthNumber
}

// Aggregator sums daily entries into weeks
type Aggregator struct {
	logger *applog.Logger
}

// NewAggregator creates an aggregator reporting undefined percentages to logger
func NewAggregator(logger *applog.Logger) *Aggregator {
	if logger == nil {
		logger = applog.Discard()
	}
	return &Aggregator{logger: logger}
}

// Aggregate groups daily entries by (group, month number, week index) using
// the given anchor. Entries come back ordered by group first appearance,
// then month number, then week. A month whose total is zero gets undefined
// percentages and is listed in the returned references.
func (a *Aggregator) Aggregate(
	daily []entities.DailyForecastEntry,
	anchor time.Time,
) ([]entities.WeeklyForecastEntry, []dto.MonthRef) {
	groupOrder := make(map[entities.GroupKey]int)
	weekly := make(map[weekKey]float64)
	monthly := make(map[monthKey]float64)
	var keys []weekKey

	for _, entry := range daily {
		if _, ok := groupOrder[entry.Group]; !ok {
			groupOrder[entry.Group] = len(groupOrder)
		}
		key := weekKey{
			group:       entry.Group,
			monthNumber: entry.MonthNumber,
			week:        WeekIndexOf(entry.Date, anchor),
		}
		if _, ok := weekly[key]; !ok {
			keys = append(keys, key)
		}
		weekly[key] += entry.Value
	}

	sort.Slice(keys, func(i, j int) bool {
		gi, gj := groupOrder[keys[i].group], groupOrder[keys[j].group]
		if gi != gj {
			return gi < gj
		}
		if keys[i].monthNumber != keys[j].monthNumber {
			return keys[i].monthNumber < keys[j].monthNumber
		}
		return keys[i].week < keys[j].week
	})

	// Month totals are the sum of the weekly sums of the bucket.
	for _, key := range keys {
		monthly[monthKey{key.group, key.monthNumber}] += weekly[key]
	}

	entries := make([]entities.WeeklyForecastEntry, 0, len(keys))
	var undefined []dto.MonthRef
	reported := make(map[monthKey]bool)

	for _, key := range keys {
		mk := monthKey{key.group, key.monthNumber}
		total := monthly[mk]

		percentage := entities.UndefinedPercentage()
		if pct, err := PercentageOf(weekly[key], total); err == nil {
			percentage = entities.NewPercentage(pct)
		} else if !reported[mk] {
			reported[mk] = true
			undefined = append(undefined, dto.MonthRef{Group: key.group, MonthNumber: key.monthNumber})
			a.logger.Warn("percentage contribution undefined",
				applog.FieldGroup, key.group.String(),
				applog.FieldMonthNumber, int(key.monthNumber),
				applog.FieldError, err)
		}

		entries = append(entries, entities.WeeklyForecastEntry{
			Group:        key.group,
			MonthNumber:  key.monthNumber,
			WeekIndex:    key.week,
			WeeklyTotal:  weekly[key],
			MonthlyTotal: total,
			Percentage:   percentage,
		})
	}

	return entries, undefined
}

// Pivot lays weekly entries out as one row per group and one column per
// (month number, week), columns sorted by month then week
func Pivot(weekly []entities.WeeklyForecastEntry) *dto.PivotTable {
	columnIndex := make(map[dto.PivotColumn]int)
	var columns []dto.PivotColumn
	rowIndex := make(map[entities.GroupKey]int)
	var groups []entities.GroupKey

	for _, entry := range weekly {
		col := dto.PivotColumn{MonthNumber: entry.MonthNumber, WeekIndex: entry.WeekIndex}
		if _, ok := columnIndex[col]; !ok {
			columnIndex[col] = len(columns)
			columns = append(columns, col)
		}
		if _, ok := rowIndex[entry.Group]; !ok {
			rowIndex[entry.Group] = len(groups)
			groups = append(groups, entry.Group)
		}
	}

	sort.Slice(columns, func(i, j int) bool {
		if columns[i].MonthNumber != columns[j].MonthNumber {
			return columns[i].MonthNumber < columns[j].MonthNumber
		}
		return columns[i].WeekIndex < columns[j].WeekIndex
	})
	for i, col := range columns {
		columnIndex[col] = i
	}

	table := &dto.PivotTable{
		Columns: columns,
		Rows:    make([]dto.PivotRow, len(groups)),
	}
	for i, group := range groups {
		table.Rows[i] = dto.PivotRow{Group: group, Cells: make([]dto.PivotCell, len(columns))}
	}

	for _, entry := range weekly {
		row := rowIndex[entry.Group]
		col := columnIndex[dto.PivotColumn{MonthNumber: entry.MonthNumber, WeekIndex: entry.WeekIndex}]
		cell := &table.Rows[row].Cells[col]
		cell.WeeklyTotal += entry.WeeklyTotal
		cell.Percentage = entry.Percentage
		cell.Present = true
	}

	return table
}
