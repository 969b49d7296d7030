package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/vsinha/forecast/pkg/application/dto"
	"github.com/vsinha/forecast/pkg/domain/entities"
	"github.com/vsinha/forecast/pkg/infrastructure/config"
)

// Output file names
const (
	TextFile           = "forecast_results.txt"
	JSONFile           = "forecast_results.json"
	WorkbookFile       = "forecast_results.xlsx"
	DailyCSVFile       = "daily_forecast.csv"
	WeeklyCSVFile      = "weekly_forecast.csv"
	PivotCSVFile       = "weekly_forecast_pivot.csv"
	AdjustedCSVFile    = "adjusted_weekly_forecast.csv"
	AdjustedJSONFile   = "adjusted_weekly_forecast.json"
	AdjustedTextFile   = "adjusted_weekly_forecast.txt"
	AdjustedExcelFile  = "adjusted_weekly_forecast.xlsx"
	AdjustmentDiffFile = "adjusted_weekly_forecast.diff"
)

// Config holds configuration for output generation
type Config struct {
	Format      string
	OutputDir   string
	Verbose     bool
	Diff        bool
	InputFile   string
	Elapsed     time.Duration
	GeneratedAt time.Time

	// Stdout receives console output; os.Stdout when nil
	Stdout io.Writer
}

func (c Config) stdout() io.Writer {
	if c.Stdout == nil {
		return os.Stdout
	}
	return c.Stdout
}

func (c Config) generatedAt() time.Time {
	if c.GeneratedAt.IsZero() {
		return time.Now().UTC()
	}
	return c.GeneratedAt
}

// Metadata describes the run that produced a JSON document
type Metadata struct {
	GeneratedAt time.Time `json:"generated_at"`
	InputFile   string    `json:"input_file,omitempty"`
	Anchor      string    `json:"anchor,omitempty"`
	ElapsedMS   int64     `json:"elapsed_ms"`
}

type conversionDocument struct {
	Metadata Metadata `json:"metadata"`
	*dto.ConversionResult
}

type adjustmentDocument struct {
	Metadata Metadata `json:"metadata"`
	*dto.AdjustmentResult
}

// Generate creates output in the specified format
func Generate(result *dto.ConversionResult, cfg Config) ([]string, error) {
	switch cfg.Format {
	case config.FormatText:
		return generateTextOutput(result, cfg)
	case config.FormatJSON:
		return generateJSONOutput(result, cfg)
	case config.FormatCSV:
		return generateCSVOutput(result, cfg)
	case config.FormatXLSX:
		return generateExcelOutput(result, cfg)
	default:
		return nil, fmt.Errorf("unsupported output format: %s", cfg.Format)
	}
}

// generateTextOutput creates human-readable text output
func generateTextOutput(result *dto.ConversionResult, cfg Config) ([]string, error) {
	var buf bytes.Buffer
	w := &buf

	fmt.Fprintf(w, "📊 Weekly Forecast Summary\n")
	fmt.Fprintf(w, "==========================\n\n")

	if cfg.InputFile != "" {
		fmt.Fprintf(w, "Input: %s\n", cfg.InputFile)
	}
	fmt.Fprintf(w, "Anchor Monday: %s\n", result.Anchor.Format(entities.DateLayout))
	fmt.Fprintf(w, "Groups: %d\n", len(result.Groups))
	fmt.Fprintf(w, "Months: %d\n", len(result.Windows))
	fmt.Fprintf(w, "Daily Entries: %d\n", len(result.Daily))
	fmt.Fprintf(w, "Weekly Entries: %d\n", len(result.Weekly))
	if cfg.Elapsed > 0 {
		fmt.Fprintf(w, "Conversion Time: %v\n", cfg.Elapsed)
	}
	fmt.Fprintln(w)

	if len(result.UndefinedMonths) > 0 {
		fmt.Fprintf(w, "⚠️  Months with zero forecast (percentage undefined):\n")
		for _, ref := range result.UndefinedMonths {
			fmt.Fprintf(w, "  %s month %d\n", ref.Group, ref.MonthNumber)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "📅 Business Windows:\n")
	writeTextTable(w, windowTable(result.Windows))

	fmt.Fprintf(w, "📋 Weekly Forecast:\n")
	writeTextTable(w, weeklyTable(result.Weekly))

	if cfg.Verbose {
		fmt.Fprintf(w, "📆 Daily Forecast:\n")
		writeTextTable(w, dailyTable(result.Daily))
	}

	return emitText(buf.Bytes(), TextFile, cfg)
}

// generateJSONOutput creates JSON output
func generateJSONOutput(result *dto.ConversionResult, cfg Config) ([]string, error) {
	doc := conversionDocument{
		Metadata: Metadata{
			GeneratedAt: cfg.generatedAt(),
			InputFile:   cfg.InputFile,
			Anchor:      result.Anchor.Format(entities.DateLayout),
			ElapsedMS:   cfg.Elapsed.Milliseconds(),
		},
		ConversionResult: result,
	}
	return emitJSON(doc, JSONFile, cfg)
}

// generateCSVOutput writes the daily, weekly and pivot tables as CSV files
func generateCSVOutput(result *dto.ConversionResult, cfg Config) ([]string, error) {
	if cfg.OutputDir == "" {
		return nil, fmt.Errorf("output directory required for CSV format")
	}
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	files := []struct {
		name  string
		table table
	}{
		{DailyCSVFile, dailyTable(result.Daily)},
		{WeeklyCSVFile, weeklyTable(result.Weekly)},
		{PivotCSVFile, pivotTable(result.Pivot)},
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		filename := filepath.Join(cfg.OutputDir, f.name)
		if err := writeCSVFile(f.table, filename); err != nil {
			return written, fmt.Errorf("failed to write %s CSV: %w", f.table.name, err)
		}
		written = append(written, filename)
	}

	return written, nil
}

// generateExcelOutput writes one workbook with a sheet per table
func generateExcelOutput(result *dto.ConversionResult, cfg Config) ([]string, error) {
	if cfg.OutputDir == "" {
		return nil, fmt.Errorf("output directory required for xlsx format")
	}
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(cfg.OutputDir, WorkbookFile)
	err := writeWorkbook(filename,
		dailyTable(result.Daily),
		weeklyTable(result.Weekly),
		pivotTable(result.Pivot),
		windowTable(result.Windows))
	if err != nil {
		return nil, err
	}
	return []string{filename}, nil
}

// GenerateAdjustment writes the reallocated weekly table and, when cfg.Diff
// is set, a unified diff against the uploaded values
func GenerateAdjustment(result *dto.AdjustmentResult, cfg Config) ([]string, error) {
	var (
		written []string
		err     error
	)

	switch cfg.Format {
	case config.FormatText:
		var buf bytes.Buffer
		fmt.Fprintf(&buf, "📊 Adjusted Weekly Forecast\n")
		fmt.Fprintf(&buf, "===========================\n\n")
		fmt.Fprintf(&buf, "Rows: %d\n", len(result.Adjusted))
		fmt.Fprintf(&buf, "Changed: %d\n\n", countChanged(result))
		writeTextTable(&buf, weeklyTable(result.Adjusted))
		written, err = emitText(buf.Bytes(), AdjustedTextFile, cfg)
	case config.FormatJSON:
		doc := adjustmentDocument{
			Metadata: Metadata{
				GeneratedAt: cfg.generatedAt(),
				InputFile:   cfg.InputFile,
				ElapsedMS:   cfg.Elapsed.Milliseconds(),
			},
			AdjustmentResult: result,
		}
		written, err = emitJSON(doc, AdjustedJSONFile, cfg)
	case config.FormatCSV:
		if cfg.OutputDir == "" {
			return nil, fmt.Errorf("output directory required for CSV format")
		}
		if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
		filename := filepath.Join(cfg.OutputDir, AdjustedCSVFile)
		if err := writeCSVFile(weeklyTable(result.Adjusted), filename); err != nil {
			return nil, fmt.Errorf("failed to write adjusted weekly CSV: %w", err)
		}
		written = []string{filename}
	case config.FormatXLSX:
		if cfg.OutputDir == "" {
			return nil, fmt.Errorf("output directory required for xlsx format")
		}
		if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
		filename := filepath.Join(cfg.OutputDir, AdjustedExcelFile)
		if err := writeWorkbook(filename, weeklyTable(result.Adjusted)); err != nil {
			return nil, err
		}
		written = []string{filename}
	default:
		return nil, fmt.Errorf("unsupported output format: %s", cfg.Format)
	}
	if err != nil {
		return written, err
	}

	if cfg.Diff {
		diff, err := AdjustmentDiff(result)
		if err != nil {
			return written, err
		}
		if cfg.OutputDir != "" {
			filename := filepath.Join(cfg.OutputDir, AdjustmentDiffFile)
			if err := os.WriteFile(filename, []byte(diff), 0644); err != nil {
				return written, fmt.Errorf("failed to write diff file: %w", err)
			}
			written = append(written, filename)
		} else {
			fmt.Fprint(cfg.stdout(), diff)
		}
	}

	return written, nil
}

func countChanged(result *dto.AdjustmentResult) int {
	changed := 0
	for i := range result.Adjusted {
		if formatNumber(result.Adjusted[i].WeeklyTotal) != formatNumber(result.Original[i].WeeklyTotal) {
			changed++
		}
	}
	return changed
}

// emitText prints text to stdout, or saves it under name when an output
// directory is configured
func emitText(text []byte, name string, cfg Config) ([]string, error) {
	if cfg.OutputDir == "" {
		if _, err := cfg.stdout().Write(text); err != nil {
			return nil, fmt.Errorf("failed to write text output: %w", err)
		}
		return nil, nil
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	filename := filepath.Join(cfg.OutputDir, name)
	if err := os.WriteFile(filename, text, 0644); err != nil {
		return nil, fmt.Errorf("failed to write text file: %w", err)
	}
	return []string{filename}, nil
}

func emitJSON(doc any, name string, cfg Config) ([]string, error) {
	jsonData, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if cfg.OutputDir == "" {
		fmt.Fprintln(cfg.stdout(), string(jsonData))
		return nil, nil
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	filename := filepath.Join(cfg.OutputDir, name)
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write JSON file: %w", err)
	}
	return []string{filename}, nil
}
