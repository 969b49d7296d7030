package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vsinha/forecast/pkg/domain/entities"
	"github.com/vsinha/forecast/pkg/domain/services"
)

// Loader handles loading forecast tables from CSV files
type Loader struct {
	parser *RecordParser
}

// NewLoader creates a new CSV loader
func NewLoader(cal *services.Calendar) *Loader {
	return &Loader{parser: NewRecordParser(cal)}
}

// LoadMonthly loads monthly forecast rows from a long or wide CSV file
func (l *Loader) LoadMonthly(filename string) ([]*entities.MonthlyForecastRow, error) {
	records, err := readFile(filename, "monthly forecast")
	if err != nil {
		return nil, err
	}
	return l.parser.ParseMonthly("monthly forecast CSV", records)
}

// LoadUpdatedWeekly loads a weekly table with edited percentage contributions
func (l *Loader) LoadUpdatedWeekly(filename string) ([]*entities.UpdatedWeeklyForecastEntry, error) {
	records, err := readFile(filename, "weekly forecast")
	if err != nil {
		return nil, err
	}
	return l.parser.ParseUpdatedWeekly("weekly forecast CSV", records)
}

// ReadMonthly parses monthly forecast rows from r
func (l *Loader) ReadMonthly(r io.Reader) ([]*entities.MonthlyForecastRow, error) {
	records, err := readAll(r, "monthly forecast")
	if err != nil {
		return nil, err
	}
	return l.parser.ParseMonthly("monthly forecast CSV", records)
}

// ReadUpdatedWeekly parses an edited weekly table from r
func (l *Loader) ReadUpdatedWeekly(r io.Reader) ([]*entities.UpdatedWeeklyForecastEntry, error) {
	records, err := readAll(r, "weekly forecast")
	if err != nil {
		return nil, err
	}
	return l.parser.ParseUpdatedWeekly("weekly forecast CSV", records)
}

func readFile(filename, kind string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", kind, filename, err)
	}
	defer file.Close()

	return readAll(file, kind)
}

func readAll(r io.Reader, kind string) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	// Excel exports often start with a byte order mark
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = trimBOM(records[0][0])
	}
	return records, nil
}

func trimBOM(s string) string {
	return strings.TrimPrefix(s, "\ufeff")
}
