package csv

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/vsinha/forecast/pkg/domain/entities"
	"github.com/vsinha/forecast/pkg/domain/services"
)

// Layout is the shape of a monthly forecast table
type Layout int

const (
	// LayoutLong has one row per (group, month) with Month and Monthly Forecast columns
	LayoutLong Layout = iota
	// LayoutWide has one row per group and one column per month
	LayoutWide
)

func (l Layout) String() string {
	switch l {
	case LayoutLong:
		return "long"
	case LayoutWide:
		return "wide"
	default:
		return "unknown"
	}
}

// DetectLayout reports LayoutLong when header carries both the Month and the
// Monthly Forecast columns, LayoutWide otherwise
func DetectLayout(header []string) Layout {
	index := entities.ColumnIndex(header)
	_, hasMonth := index[entities.NormalizeColumn(entities.ColumnMonth)]
	_, hasValue := index[entities.NormalizeColumn(entities.ColumnMonthlyForecast)]
	if hasMonth && hasValue {
		return LayoutLong
	}
	return LayoutWide
}

// RecordParser turns already-read tabular records into forecast rows. It is
// shared by every file format; records[0] is the header.
type RecordParser struct {
	calendar *services.Calendar
}

// NewRecordParser creates a parser using cal to read month labels
func NewRecordParser(cal *services.Calendar) *RecordParser {
	if cal == nil {
		cal = services.NewCalendar()
	}
	return &RecordParser{calendar: cal}
}

// ParseMonthly parses a long or wide monthly forecast table. input names the
// source in error messages.
func (p *RecordParser) ParseMonthly(input string, records [][]string) ([]*entities.MonthlyForecastRow, error) {
	if len(records) < 2 {
		return nil, fmt.Errorf("%s must have header and at least one data row", input)
	}

	if DetectLayout(records[0]) == LayoutLong {
		return p.parseLong(input, records)
	}
	return p.parseWide(input, records)
}

func (p *RecordParser) parseLong(input string, records [][]string) ([]*entities.MonthlyForecastRow, error) {
	header := records[0]
	required := append(append([]string{}, entities.GroupColumns...), entities.ColumnMonth, entities.ColumnMonthlyForecast)
	if err := entities.RequireColumns(input, header, required); err != nil {
		return nil, err
	}
	index := entities.ColumnIndex(header)

	rows := make([]*entities.MonthlyForecastRow, 0, len(records)-1)
	for i, record := range records[1:] {
		if isBlank(record) {
			continue
		}

		group := groupOf(record, index)
		month, err := p.calendar.ParseMonth(cell(record, index, entities.ColumnMonth))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", input, i+2, err)
		}

		raw := cell(record, index, entities.ColumnMonthlyForecast)
		value, err := parseNumber(raw)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid monthly forecast: %q", input, i+2, raw)
		}

		row, err := entities.NewMonthlyForecastRow(group, month, value)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", input, i+2, err)
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%s has no monthly forecast rows", input)
	}
	return rows, nil
}

// parseWide reshapes one row per group into long rows, walking each row's
// month columns left to right. Empty cells are skipped.
func (p *RecordParser) parseWide(input string, records [][]string) ([]*entities.MonthlyForecastRow, error) {
	header := records[0]
	if err := entities.RequireColumns(input, header, entities.GroupColumns); err != nil {
		return nil, err
	}
	index := entities.ColumnIndex(header)

	groupPositions := make(map[int]bool, len(entities.GroupColumns))
	for _, col := range entities.GroupColumns {
		groupPositions[index[entities.NormalizeColumn(col)]] = true
	}

	type monthColumn struct {
		position int
		month    entities.Month
	}
	var months []monthColumn
	for pos, name := range header {
		if groupPositions[pos] || strings.TrimSpace(name) == "" {
			continue
		}
		month, err := p.calendar.ParseMonth(name)
		if err != nil {
			return nil, fmt.Errorf("%s column %d: %w", input, pos+1, err)
		}
		months = append(months, monthColumn{position: pos, month: month})
	}
	if len(months) == 0 {
		return nil, fmt.Errorf("%s has no month columns", input)
	}

	rows := make([]*entities.MonthlyForecastRow, 0, (len(records)-1)*len(months))
	for i, record := range records[1:] {
		if isBlank(record) {
			continue
		}
		group := groupOf(record, index)

		for _, mc := range months {
			raw := ""
			if mc.position < len(record) {
				raw = strings.TrimSpace(record[mc.position])
			}
			if raw == "" {
				continue
			}

			value, err := parseNumber(raw)
			if err != nil {
				return nil, fmt.Errorf("%s row %d column %d: invalid monthly forecast: %q", input, i+2, mc.position+1, raw)
			}

			row, err := entities.NewMonthlyForecastRow(group, mc.month, value)
			if err != nil {
				return nil, fmt.Errorf("%s row %d column %d: %w", input, i+2, mc.position+1, err)
			}
			rows = append(rows, row)
		}
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%s has no monthly forecast values", input)
	}
	return rows, nil
}

// ParseUpdatedWeekly parses a round-trip weekly table carrying edited
// percentage contributions
func (p *RecordParser) ParseUpdatedWeekly(input string, records [][]string) ([]*entities.UpdatedWeeklyForecastEntry, error) {
	if len(records) < 2 {
		return nil, fmt.Errorf("%s must have header and at least one data row", input)
	}

	header := records[0]
	if err := entities.RequireColumns(input, header, entities.UpdatedWeeklyColumns); err != nil {
		return nil, err
	}
	index := entities.ColumnIndex(header)

	entries := make([]*entities.UpdatedWeeklyForecastEntry, 0, len(records)-1)
	for i, record := range records[1:] {
		if isBlank(record) {
			continue
		}

		entry, err := parseUpdatedWeekly(record, index)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", input, i+2, err)
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("%s has no weekly rows", input)
	}
	return entries, nil
}

func parseUpdatedWeekly(record []string, index map[string]int) (*entities.UpdatedWeeklyForecastEntry, error) {
	group := groupOf(record, index)
	for _, part := range []string{group.Country, group.Region, group.Material} {
		if part == "" {
			return nil, fmt.Errorf("group columns cannot be empty")
		}
	}

	monthStr := cell(record, index, entities.ColumnMonthNumber)
	monthNumber, err := parseInteger(monthStr)
	if err != nil {
		return nil, fmt.Errorf("invalid month number: %q", monthStr)
	}

	weekStr := cell(record, index, entities.ColumnWeekNumber)
	week, err := parseInteger(weekStr)
	if err != nil {
		return nil, fmt.Errorf("invalid week number: %q", weekStr)
	}

	pct, err := parsePercentage(cell(record, index, entities.ColumnPercentage))
	if err != nil {
		return nil, err
	}

	weeklyStr := cell(record, index, entities.ColumnWeeklyForecast)
	weekly, err := parseNumber(weeklyStr)
	if err != nil {
		return nil, fmt.Errorf("invalid weekly forecast: %q", weeklyStr)
	}

	return &entities.UpdatedWeeklyForecastEntry{
		Group:          group,
		MonthNumber:    entities.MonthNumber(monthNumber),
		WeekIndex:      entities.WeekIndex(week),
		Percentage:     pct,
		WeeklyForecast: weekly,
	}, nil
}

// parsePercentage reads a percentage cell. Empty and "undefined" cells are
// undefined percentages.
func parsePercentage(raw string) (entities.Percentage, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, entities.UndefinedLabel) {
		return entities.UndefinedPercentage(), nil
	}

	value, err := parseNumber(strings.TrimSuffix(raw, "%"))
	if err != nil {
		return entities.Percentage{}, fmt.Errorf("invalid percentage contribution: %q", raw)
	}
	return entities.NewPercentage(value), nil
}

// parseNumber parses a finite decimal number
func parseNumber(raw string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("not a finite number: %s", raw)
	}
	return value, nil
}

// parseInteger accepts "3" as well as spreadsheet renderings such as "3.0"
func parseInteger(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}
	value, err := parseNumber(raw)
	if err != nil {
		return 0, err
	}
	if value != math.Trunc(value) {
		return 0, fmt.Errorf("not an integer: %s", raw)
	}
	return int(value), nil
}

func groupOf(record []string, index map[string]int) entities.GroupKey {
	return entities.GroupKey{
		Country:  cell(record, index, entities.ColumnCountry),
		Region:   cell(record, index, entities.ColumnRegion),
		Material: cell(record, index, entities.ColumnMaterial),
	}
}

// cell returns the trimmed value of column in record, or "" when the record
// is shorter than the header
func cell(record []string, index map[string]int, column string) string {
	pos, ok := index[entities.NormalizeColumn(column)]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
