package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/vsinha/forecast/pkg/infrastructure/config"
	applog "github.com/vsinha/forecast/pkg/infrastructure/log"
	"github.com/vsinha/forecast/pkg/interfaces/cli/commands"
)

// executor is implemented by every subcommand
type executor interface {
	Execute(ctx context.Context) error
}

func main() {
	// .env is optional
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		usage()
		return fmt.Errorf("missing command")
	}

	var (
		cmd executor
		err error
	)
	switch args[0] {
	case "convert":
		cmd, err = convertCommand(args[1:])
	case "adjust":
		cmd, err = adjustCommand(args[1:])
	case "generate":
		cmd, err = generateCommand(args[1:])
	case "help", "-help", "--help", "-h":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
	if err != nil {
		return err
	}

	return cmd.Execute(ctx)
}

// sharedFlags are accepted by convert and adjust and override the config file
type sharedFlags struct {
	configFile *string
	input      *string
	sheet      *string
	outputDir  *string
	format     *string
	verbose    *bool
	help       *bool
}

func registerShared(fs *flag.FlagSet, inputHelp string) sharedFlags {
	return sharedFlags{
		configFile: fs.String("config", "", "YAML configuration file"),
		input:      fs.String("input", "", inputHelp),
		sheet:      fs.String("sheet", "", "Worksheet to read from an xlsx file"),
		outputDir:  fs.String("output", "", "Output directory for results"),
		format:     fs.String("format", config.FormatText, "Output format: text, json, csv, xlsx"),
		verbose:    fs.Bool("verbose", false, "Enable verbose output"),
		help:       fs.Bool("help", false, "Show help message"),
	}
}

// resolve layers explicitly set flags over the file and environment settings
func (s sharedFlags) resolve(fs *flag.FlagSet) (*config.Config, *applog.Logger, error) {
	cfg, err := config.Load(*s.configFile)
	if err != nil {
		return nil, nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "sheet":
			cfg.Sheet = *s.sheet
		case "output":
			cfg.OutputDir = *s.outputDir
		case "format":
			cfg.Format = *s.format
		case "verbose":
			cfg.Verbose = *s.verbose
		}
	})

	if *s.help {
		return cfg, applog.Discard(), nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger := applog.New(cfg.LoggerConfig(applog.ComponentApp))
	applog.SetDefault(logger)
	return cfg, logger, nil
}

func convertCommand(args []string) (executor, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	shared := registerShared(fs, "Monthly forecast file (.csv or .xlsx)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg, logger, err := shared.resolve(fs)
	if err != nil {
		return nil, err
	}

	return commands.NewConvertCommand(commands.Config{
		InputFile: *shared.input,
		Sheet:     cfg.Sheet,
		OutputDir: cfg.OutputDir,
		Format:    cfg.Format,
		Verbose:   cfg.Verbose,
		Help:      *shared.help,
		Logger:    logger,
	}), nil
}

func adjustCommand(args []string) (executor, error) {
	fs := flag.NewFlagSet("adjust", flag.ContinueOnError)
	shared := registerShared(fs, "Weekly forecast file with edited percentages (.csv or .xlsx)")
	diff := fs.Bool("diff", false, "Write a unified diff of the weekly values")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg, logger, err := shared.resolve(fs)
	if err != nil {
		return nil, err
	}

	return commands.NewAdjustCommand(commands.AdjustConfig{
		InputFile: *shared.input,
		Sheet:     cfg.Sheet,
		OutputDir: cfg.OutputDir,
		Format:    cfg.Format,
		Diff:      *diff,
		Verbose:   cfg.Verbose,
		Help:      *shared.help,
		Logger:    logger,
	}), nil
}

func generateCommand(args []string) (executor, error) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	var (
		outputFile = fs.String("output", "", "File to write, .csv or .xlsx")
		groups     = fs.Int("groups", 5, "Number of country/region/material groups")
		months     = fs.Int("months", 12, "Number of consecutive months")
		start      = fs.String("start", "2024-01", "First month (YYYY-MM)")
		zeroRate   = fs.Float64("zero-rate", 0.05, "Share of months forecast as zero")
		seed       = fs.Int64("seed", 0, "Random seed for reproducible generation")
		verbose    = fs.Bool("verbose", false, "Enable verbose output")
		help       = fs.Bool("help", false, "Show help message")
	)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return commands.NewGenerateCommand(commands.GenerateConfig{
		OutputFile: *outputFile,
		Groups:     *groups,
		Months:     *months,
		Start:      *start,
		ZeroRate:   *zeroRate,
		Seed:       *seed,
		Verbose:    *verbose,
		Help:       *help,
	}), nil
}

func usage() {
	fmt.Println(`Forecast CLI - Monthly to weekly demand forecast conversion

USAGE:
    forecast <command> [options]

COMMANDS:
    convert     Spread a monthly forecast over business days and weeks
    adjust      Rebuild weekly values from edited percentage contributions
    generate    Write a random sample monthly forecast
    help        Show this help message

Run "forecast <command> -help" for command options.

ENVIRONMENT:
    FORECAST_FORMAT, FORECAST_OUTPUT_DIR, FORECAST_SHEET, FORECAST_VERBOSE,
    FORECAST_LOG_LEVEL, FORECAST_LOG_FORMAT (also read from .env)`)
}
