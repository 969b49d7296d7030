package excel

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/vsinha/forecast/pkg/domain/entities"
	"github.com/vsinha/forecast/pkg/domain/services"
	"github.com/vsinha/forecast/pkg/infrastructure/repositories/csv"
)

// WeeklySheet is the sheet an edited weekly table is read from when present
const WeeklySheet = "Weekly"

// Loader handles loading forecast tables from xlsx workbooks
type Loader struct {
	parser *csv.RecordParser
	sheet  string
}

// NewLoader creates an xlsx loader. An empty sheet selects the first sheet
// of the workbook.
func NewLoader(cal *services.Calendar, sheet string) *Loader {
	return &Loader{parser: csv.NewRecordParser(cal), sheet: sheet}
}

// LoadMonthly loads monthly forecast rows from a long or wide worksheet
func (l *Loader) LoadMonthly(filename string) ([]*entities.MonthlyForecastRow, error) {
	f, err := excelize.OpenFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open monthly forecast workbook %s: %w", filename, err)
	}
	defer f.Close()

	return l.readMonthly(f)
}

// ReadMonthly parses monthly forecast rows from an xlsx stream
func (l *Loader) ReadMonthly(r io.Reader) ([]*entities.MonthlyForecastRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read monthly forecast workbook: %w", err)
	}
	defer f.Close()

	return l.readMonthly(f)
}

// LoadUpdatedWeekly loads an edited weekly table, preferring the Weekly sheet
func (l *Loader) LoadUpdatedWeekly(filename string) ([]*entities.UpdatedWeeklyForecastEntry, error) {
	f, err := excelize.OpenFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open weekly forecast workbook %s: %w", filename, err)
	}
	defer f.Close()

	sheet := l.sheet
	if sheet == "" {
		if idx, _ := f.GetSheetIndex(WeeklySheet); idx >= 0 {
			sheet = WeeklySheet
		}
	}

	records, sheet, err := readSheet(f, sheet)
	if err != nil {
		return nil, err
	}
	return l.parser.ParseUpdatedWeekly(fmt.Sprintf("weekly forecast sheet %q", sheet), records)
}

func (l *Loader) readMonthly(f *excelize.File) ([]*entities.MonthlyForecastRow, error) {
	records, sheet, err := readSheet(f, l.sheet)
	if err != nil {
		return nil, err
	}

	if len(records) > 0 {
		if err := convertDateSerials(f, records); err != nil {
			return nil, err
		}
	}
	return l.parser.ParseMonthly(fmt.Sprintf("monthly forecast sheet %q", sheet), records)
}

// readSheet returns the raw cell values of sheet, or of the first sheet when
// sheet is empty
func readSheet(f *excelize.File, sheet string) ([][]string, string, error) {
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, "", fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, sheet, fmt.Errorf("sheet %q not found in workbook", sheet)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, sheet, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, sheet, nil
}

// convertDateSerials rewrites date cells stored as Excel serial numbers into
// YYYY-MM-DD labels: month headers of a wide sheet and the Month column of a
// long sheet
func convertDateSerials(f *excelize.File, records [][]string) error {
	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	header := records[0]
	index := entities.ColumnIndex(header)
	groupPositions := make(map[int]bool, len(entities.GroupColumns))
	for _, col := range entities.GroupColumns {
		if pos, ok := index[entities.NormalizeColumn(col)]; ok {
			groupPositions[pos] = true
		}
	}

	if csv.DetectLayout(header) == csv.LayoutWide {
		for pos, name := range header {
			if groupPositions[pos] {
				continue
			}
			label, err := serialToLabel(name, date1904)
			if err != nil {
				return fmt.Errorf("column %d: %w", pos+1, err)
			}
			header[pos] = label
		}
		return nil
	}

	monthPos := index[entities.NormalizeColumn(entities.ColumnMonth)]
	for i, record := range records[1:] {
		if monthPos >= len(record) {
			continue
		}
		label, err := serialToLabel(record[monthPos], date1904)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		record[monthPos] = label
	}
	return nil
}

// serialToLabel converts a numeric cell to a date label and leaves any other
// text unchanged
func serialToLabel(value string, date1904 bool) (string, error) {
	serial, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return value, nil
	}
	t, err := excelize.ExcelDateToTime(serial, date1904)
	if err != nil {
		return "", fmt.Errorf("%w: date serial %s: %v", entities.ErrMalformedMonth, value, err)
	}
	return t.Format(entities.DateLayout), nil
}
