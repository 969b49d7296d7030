package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vsinha/forecast/pkg/domain/entities"
	"github.com/vsinha/forecast/pkg/domain/services"
	"github.com/vsinha/forecast/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/forecast/pkg/infrastructure/repositories/excel"
)

// inputKind is the file format of an input table, chosen by extension
type inputKind int

const (
	inputCSV inputKind = iota
	inputExcel
)

func detectInput(path string) (inputKind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return inputCSV, nil
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return inputExcel, nil
	default:
		return 0, fmt.Errorf("unsupported input file %s: expected .csv or .xlsx", path)
	}
}

func checkInputFile(path string) error {
	if path == "" {
		return fmt.Errorf("must specify an input file with -input")
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", path)
	}
	_, err := detectInput(path)
	return err
}

// loadMonthly reads monthly forecast rows from a CSV or xlsx file
func loadMonthly(path, sheet string, cal *services.Calendar) ([]*entities.MonthlyForecastRow, error) {
	kind, err := detectInput(path)
	if err != nil {
		return nil, err
	}
	if kind == inputExcel {
		return excel.NewLoader(cal, sheet).LoadMonthly(path)
	}
	return csv.NewLoader(cal).LoadMonthly(path)
}

// loadUpdatedWeekly reads an edited weekly table from a CSV or xlsx file
func loadUpdatedWeekly(path, sheet string, cal *services.Calendar) ([]*entities.UpdatedWeeklyForecastEntry, error) {
	kind, err := detectInput(path)
	if err != nil {
		return nil, err
	}
	if kind == inputExcel {
		return excel.NewLoader(cal, sheet).LoadUpdatedWeekly(path)
	}
	return csv.NewLoader(cal).LoadUpdatedWeekly(path)
}
