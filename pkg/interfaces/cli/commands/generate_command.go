package commands

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/vsinha/forecast/pkg/domain/entities"
	"github.com/vsinha/forecast/pkg/domain/services"
)

// GenerateConfig holds configuration for sample input generation
type GenerateConfig struct {
	OutputFile string  // .csv or .xlsx file to write
	Groups     int     // Number of (country, region, material) groups
	Months     int     // Number of consecutive months per group
	Start      string  // First month, e.g. 2024-01
	ZeroRate   float64 // Share of months forecast as zero
	Seed       int64   // Random seed for reproducible generation
	Help       bool    // Show help
	Verbose    bool    // Verbose output

	Stdout io.Writer
}

// GenerateCommand writes a random wide-layout monthly forecast
type GenerateCommand struct {
	config   GenerateConfig
	rand     *rand.Rand
	calendar *services.Calendar
	out      io.Writer
}

// NewGenerateCommand creates a new generate command
func NewGenerateCommand(config GenerateConfig) *GenerateCommand {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	out := config.Stdout
	if out == nil {
		out = os.Stdout
	}

	return &GenerateCommand{
		config:   config,
		rand:     rand.New(rand.NewSource(seed)),
		calendar: services.NewCalendar(),
		out:      out,
	}
}

// sampleRegions maps each sample country to its sales region
var sampleRegions = []struct {
	Country string
	Region  string
}{
	{"DE", "EMEA"},
	{"FR", "EMEA"},
	{"GB", "EMEA"},
	{"US", "AMER"},
	{"BR", "AMER"},
	{"JP", "APAC"},
	{"IN", "APAC"},
	{"AU", "APAC"},
}

// sampleSheet is the worksheet name of a generated workbook
const sampleSheet = "Forecast"

// Execute runs the generate command
func (cmd *GenerateCommand) Execute(ctx context.Context) error {
	if cmd.config.Help {
		cmd.printHelp()
		return nil
	}

	start, err := cmd.validate()
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Fprintf(cmd.out,
			"🔧 Generating forecast for %d groups over %d months starting %s\n",
			cmd.config.Groups, cmd.config.Months, start)
		fmt.Fprintf(cmd.out, "📁 Output file: %s\n", cmd.config.OutputFile)
		fmt.Fprintf(cmd.out, "🎲 Random seed: %d\n", cmd.config.Seed)
	}

	months := make([]entities.Month, cmd.config.Months)
	months[0] = start
	for i := 1; i < len(months); i++ {
		next := months[i-1].Day(1).AddDate(0, 1, 0)
		months[i] = entities.Month{Year: next.Year(), Month: next.Month()}
	}

	groups := cmd.generateGroups()
	values := make([][]float64, len(groups))
	for i := range groups {
		if err := ctx.Err(); err != nil {
			return err
		}
		values[i] = cmd.generateSeries(months)
	}

	if filepath.Ext(cmd.config.OutputFile) == ".xlsx" {
		err = writeSampleWorkbook(cmd.config.OutputFile, groups, months, values)
	} else {
		err = writeSampleCSV(cmd.config.OutputFile, groups, months, values)
	}
	if err != nil {
		return fmt.Errorf("failed to write sample forecast: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Fprintf(cmd.out, "✅ Sample forecast generated in %s\n", cmd.config.OutputFile)
	}
	return nil
}

func (cmd *GenerateCommand) validate() (entities.Month, error) {
	if cmd.config.OutputFile == "" {
		return entities.Month{}, fmt.Errorf("must specify an output file with -output")
	}
	if ext := filepath.Ext(cmd.config.OutputFile); ext != ".csv" && ext != ".xlsx" {
		return entities.Month{}, fmt.Errorf("output file must end in .csv or .xlsx, got %q", ext)
	}
	if cmd.config.Groups < 1 {
		return entities.Month{}, fmt.Errorf("groups must be at least 1, got %d", cmd.config.Groups)
	}
	if cmd.config.Months < 1 || cmd.config.Months > 120 {
		return entities.Month{}, fmt.Errorf("months must be between 1 and 120, got %d", cmd.config.Months)
	}
	if cmd.config.ZeroRate < 0 || cmd.config.ZeroRate > 1 {
		return entities.Month{}, fmt.Errorf("zero rate must be between 0 and 1, got %v", cmd.config.ZeroRate)
	}
	return cmd.calendar.ParseMonth(cmd.config.Start)
}

// generateGroups spreads materials over the sample countries
func (cmd *GenerateCommand) generateGroups() []entities.GroupKey {
	groups := make([]entities.GroupKey, cmd.config.Groups)
	for i := range groups {
		cr := sampleRegions[i%len(sampleRegions)]
		groups[i] = entities.GroupKey{
			Country:  cr.Country,
			Region:   cr.Region,
			Material: fmt.Sprintf("MAT-%03d", 100+i),
		}
	}
	return groups
}

// generateSeries draws a base volume for a group and varies it per month
// with a yearly seasonal swing and noise
func (cmd *GenerateCommand) generateSeries(months []entities.Month) []float64 {
	base := 500 + cmd.rand.Float64()*4500
	phase := cmd.rand.Float64() * 2 * math.Pi

	series := make([]float64, len(months))
	for i, m := range months {
		if cmd.rand.Float64() < cmd.config.ZeroRate {
			continue
		}
		season := 1 + 0.25*math.Sin(phase+2*math.Pi*float64(m.Month-1)/12)
		noise := 0.9 + cmd.rand.Float64()*0.2
		series[i] = math.Round(base * season * noise)
	}
	return series
}

func writeSampleCSV(filename string, groups []entities.GroupKey, months []entities.Month, values [][]float64) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	header := append([]string{}, entities.GroupColumns...)
	for _, m := range months {
		header = append(header, m.String())
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return err
	}
	for i, g := range groups {
		record := []string{g.Country, g.Region, g.Material}
		for _, v := range values[i] {
			record = append(record, strconv.FormatFloat(v, 'f', -1, 64))
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return file.Close()
}

// writeSampleWorkbook stores month headers as real dates, the way planners
// usually keep them in a spreadsheet
func writeSampleWorkbook(filename string, groups []entities.GroupKey, months []entities.Month, values [][]float64) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sampleSheet); err != nil {
		return fmt.Errorf("set sheet name: %w", err)
	}

	header := []any{entities.ColumnCountry, entities.ColumnRegion, entities.ColumnMaterial}
	for _, m := range months {
		header = append(header, m.Day(1))
	}
	if err := f.SetSheetRow(sampleSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, g := range groups {
		row := []any{g.Country, g.Region, g.Material}
		for _, v := range values[i] {
			row = append(row, v)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sampleSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	return f.SaveAs(filename)
}

func (cmd *GenerateCommand) printHelp() {
	fmt.Fprintln(cmd.out, `Forecast Sample Generator

USAGE:
    forecast generate -output <file> [OPTIONS]

OPTIONS:
    -output <FILE>      File to write, .csv or .xlsx (required)
    -groups <N>         Number of country/region/material groups (default: 5)
    -months <N>         Number of consecutive months (default: 12)
    -start <YYYY-MM>    First month (default: 2024-01)
    -zero-rate <F>      Share of months forecast as zero (default: 0.05)
    -seed <N>           Random seed for reproducible generation (optional)
    -verbose            Enable verbose output
    -help               Show this help message

EXAMPLES:
    # Generate a small CSV plan
    forecast generate -output plan.csv -groups 3 -months 6

    # Generate a reproducible workbook with date headers
    forecast generate -output plan.xlsx -groups 40 -months 24 -start 2025-01 -seed 12345 -verbose`)
}
