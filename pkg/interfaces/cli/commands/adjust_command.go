package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vsinha/forecast/pkg/application/services/forecast"
	applog "github.com/vsinha/forecast/pkg/infrastructure/log"
	"github.com/vsinha/forecast/pkg/interfaces/cli/output"
)

// AdjustConfig holds configuration for the adjust command
type AdjustConfig struct {
	InputFile string
	Sheet     string
	OutputDir string
	Format    string
	Diff      bool
	Verbose   bool
	Help      bool

	Logger *applog.Logger
	Stdout io.Writer
}

// AdjustCommand recomputes weekly values from an edited weekly table
type AdjustCommand struct {
	config  AdjustConfig
	service *forecast.ForecastService
	logger  *applog.Logger
	out     io.Writer
}

// NewAdjustCommand creates a new adjust command with the given configuration
func NewAdjustCommand(config AdjustConfig) *AdjustCommand {
	logger := config.Logger
	if logger == nil {
		logger = applog.Discard()
	}
	out := config.Stdout
	if out == nil {
		out = os.Stdout
	}

	return &AdjustCommand{
		config:  config,
		service: forecast.NewForecastService(logger),
		logger:  logger.WithComponent(applog.ComponentCLI),
		out:     out,
	}
}

// Execute runs the adjust command
func (c *AdjustCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.printHelp()
		return nil
	}

	if err := checkInputFile(c.config.InputFile); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if c.config.Verbose {
		fmt.Fprintf(c.out, "🚀 Forecast CLI - Percentage Adjustment\n")
		fmt.Fprintf(c.out, "Input file: %s\n\n", c.config.InputFile)
		fmt.Fprintln(c.out, "📂 Loading weekly forecast...")
	}

	updated, err := loadUpdatedWeekly(c.config.InputFile, c.config.Sheet, c.service.Calendar())
	if err != nil {
		c.logger.Error("failed to load weekly forecast",
			applog.FieldOperation, applog.OpLoad,
			applog.FieldFile, c.config.InputFile,
			applog.FieldError, err)
		return fmt.Errorf("error loading weekly forecast: %w", err)
	}

	if c.config.Verbose {
		fmt.Fprintf(c.out, "✅ Loaded %d weekly rows\n", len(updated))
		fmt.Fprintln(c.out, "🔄 Reallocating monthly totals by percentage...")
	}

	startTime := time.Now()
	result, err := c.service.Adjust(ctx, updated)
	elapsed := time.Since(startTime)
	if err != nil {
		return fmt.Errorf("error adjusting forecast: %w", err)
	}

	c.logger.Info("weekly forecast adjusted",
		applog.FieldOperation, applog.OpAdjust,
		applog.FieldFile, c.config.InputFile,
		applog.FieldRows, len(result.Adjusted),
		applog.FieldDuration, elapsed.Milliseconds())

	written, err := output.GenerateAdjustment(result, output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		Diff:      c.config.Diff,
		InputFile: c.config.InputFile,
		Elapsed:   elapsed,
		Stdout:    c.out,
	})
	if err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	if c.config.Verbose {
		printWritten(c.out, written)
		fmt.Fprintln(c.out, "🏁 Adjustment complete!")
	}

	return nil
}

// printHelp displays the help message
func (c *AdjustCommand) printHelp() {
	fmt.Fprintf(c.out, `Forecast CLI - Rebuild weekly values from edited percentage contributions

USAGE:
    forecast adjust -input <weekly file> [options]

OPTIONS:
    -input <file>       Weekly forecast file (.csv or .xlsx) with edited percentages
    -sheet <name>       Worksheet to read (default: Weekly, else the first sheet)
    -output <dir>       Output directory for results (required for csv and xlsx)
    -format <fmt>       Output format: text, json, csv, xlsx (default: text)
    -diff               Print or save a unified diff of the weekly values
    -config <file>      YAML configuration file
    -verbose            Enable verbose output
    -help               Show this help message

REQUIRED COLUMNS:
    Country,Region,Material,Month Number,Week Number,PercentageContribution,Weekly Forecast

Each month total is the sum of its Weekly Forecast values; every week then
receives PercentageContribution / 100 of that total. Percentages do not need
to add up to 100. An "undefined" percentage is only accepted for months whose
total is zero.

EXAMPLES:
    # Recompute a weekly table edited in a spreadsheet
    forecast adjust -input results/weekly_forecast.csv -format csv -output adjusted/

    # Show what changed
    forecast adjust -input results/forecast_results.xlsx -diff
`)
}
