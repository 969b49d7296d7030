package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vsinha/forecast/pkg/application/services/forecast"
	applog "github.com/vsinha/forecast/pkg/infrastructure/log"
	"github.com/vsinha/forecast/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/forecast/pkg/interfaces/cli/output"
)

// Config holds configuration for the convert command
type Config struct {
	InputFile string
	Sheet     string
	OutputDir string
	Format    string
	Verbose   bool
	Help      bool

	Logger *applog.Logger
	Stdout io.Writer
}

// ConvertCommand turns a monthly forecast file into daily and weekly tables
type ConvertCommand struct {
	config  Config
	service *forecast.ForecastService
	logger  *applog.Logger
	out     io.Writer
}

// NewConvertCommand creates a new convert command with the given configuration
func NewConvertCommand(config Config) *ConvertCommand {
	logger := config.Logger
	if logger == nil {
		logger = applog.Discard()
	}
	out := config.Stdout
	if out == nil {
		out = os.Stdout
	}

	return &ConvertCommand{
		config:  config,
		service: forecast.NewForecastService(logger),
		logger:  logger.WithComponent(applog.ComponentCLI),
		out:     out,
	}
}

// Execute runs the convert command
func (c *ConvertCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if err := checkInputFile(c.config.InputFile); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if c.config.Verbose {
		c.printHeader()
		fmt.Fprintln(c.out, "📂 Loading monthly forecast...")
	}

	rows, err := loadMonthly(c.config.InputFile, c.config.Sheet, c.service.Calendar())
	if err != nil {
		c.logger.Error("failed to load monthly forecast",
			applog.FieldOperation, applog.OpLoad,
			applog.FieldFile, c.config.InputFile,
			applog.FieldError, err)
		return fmt.Errorf("error loading monthly forecast: %w", err)
	}

	repo := memory.NewForecastRepository(len(rows))
	if err := repo.LoadRows(rows); err != nil {
		return fmt.Errorf("failed to load rows into repository: %w", err)
	}

	if c.config.Verbose {
		groups, _ := repo.GetGroups()
		fmt.Fprintf(c.out, "✅ Data loaded successfully:\n")
		fmt.Fprintf(c.out, "  Monthly Rows: %d\n", repo.Len())
		fmt.Fprintf(c.out, "  Groups: %d\n", len(groups))
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, "🔄 Converting to weekly buckets...")
	}

	startTime := time.Now()
	result, err := c.service.Convert(ctx, repo)
	elapsed := time.Since(startTime)
	if err != nil {
		return fmt.Errorf("error converting forecast: %w", err)
	}

	c.logger.Info("forecast converted",
		applog.FieldOperation, applog.OpConvert,
		applog.FieldFile, c.config.InputFile,
		applog.FieldRows, repo.Len(),
		applog.FieldGroups, len(result.Groups),
		applog.FieldDuration, elapsed.Milliseconds())

	if c.config.Verbose {
		fmt.Fprintf(c.out, "✅ Conversion completed in %v\n\n", elapsed)
	}

	written, err := output.Generate(result, output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		InputFile: c.config.InputFile,
		Elapsed:   elapsed,
		Stdout:    c.out,
	})
	if err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	if c.config.Verbose {
		printWritten(c.out, written)
		fmt.Fprintln(c.out, "🏁 Forecast conversion complete!")
	}

	return nil
}

// printHeader prints the command header information
func (c *ConvertCommand) printHeader() {
	fmt.Fprintf(c.out, "🚀 Forecast CLI\n")
	fmt.Fprintf(c.out, "Input file: %s\n", c.config.InputFile)
	if c.config.Sheet != "" {
		fmt.Fprintf(c.out, "Sheet: %s\n", c.config.Sheet)
	}
	fmt.Fprintf(c.out, "Output format: %s\n", c.config.Format)
	if c.config.OutputDir != "" {
		fmt.Fprintf(c.out, "Output directory: %s\n", c.config.OutputDir)
	}
	fmt.Fprintln(c.out)
}

func printWritten(w io.Writer, files []string) {
	if len(files) == 0 {
		return
	}
	fmt.Fprintf(w, "💾 Results saved to:\n")
	for _, f := range files {
		fmt.Fprintf(w, "  %s\n", f)
	}
}

// showHelp displays the help message
func (c *ConvertCommand) showHelp() {
	fmt.Fprintf(c.out, `Forecast CLI - Monthly to weekly demand forecast conversion

USAGE:
    forecast convert -input <file> [options]

OPTIONS:
    -input <file>       Monthly forecast file (.csv or .xlsx)
    -sheet <name>       Worksheet to read from an xlsx file (default: first sheet)
    -output <dir>       Output directory for results (required for csv and xlsx)
    -format <fmt>       Output format: text, json, csv, xlsx (default: text)
    -config <file>      YAML configuration file
    -verbose            Enable verbose output
    -help               Show this help message

INPUT LAYOUTS:

long:
    Country,Region,Material,Month,Monthly Forecast
    DE,EMEA,MAT-100,2024-01,230
    DE,EMEA,MAT-100,2024-02,280

wide:
    Country,Region,Material,2024-01,2024-02,2024-03
    DE,EMEA,MAT-100,230,280,210

Each month M is spread evenly over the Monday to Friday dates from the 27th
of the previous month to the 26th of M, then summed into weeks numbered from
the first Monday on or after December 27 of the year before the earliest month.

OUTPUT FILES:
    csv:   daily_forecast.csv, weekly_forecast.csv, weekly_forecast_pivot.csv
    xlsx:  forecast_results.xlsx (Daily, Weekly, Pivot and Windows sheets)
    json:  forecast_results.json, or stdout without -output
    text:  forecast_results.txt, or stdout without -output

EXAMPLES:
    # Print weekly buckets of a monthly plan
    forecast convert -input plan.csv -verbose

    # Write CSV tables for the percentage round trip
    forecast convert -input plan.xlsx -sheet Forecast -format csv -output results/
`)
}
