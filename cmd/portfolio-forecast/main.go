package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/iwvelando/portfolio-forecast/internal/assessment"
	"github.com/iwvelando/portfolio-forecast/internal/config"
	"github.com/iwvelando/portfolio-forecast/internal/optimizer"
	"github.com/iwvelando/portfolio-forecast/internal/portfolio"
	"github.com/iwvelando/portfolio-forecast/internal/simulation"
	"github.com/iwvelando/portfolio-forecast/pkg/constants"
	"github.com/iwvelando/portfolio-forecast/pkg/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	configLocation   string
	outputFormatFlag string
	logLevel         string
	scenarioFlag     string
	sensitivityFlag  float64
	breakEvenFlag    bool
	sweepFlag        bool
)

var rootCmd = &cobra.Command{
	Use:   "portfolio-forecast",
	Short: "Risk-adjust a savings portfolio and estimate the probability of hitting its target",
	Long: `Evaluates every item of the configured portfolio under a scenario multiplier
and a sensitivity offset, then runs a Monte Carlo estimate of the chance that
the realized total meets the savings target.

Examples:
  # Evaluate config.yaml with its own selection
  portfolio-forecast

  # Optimistic scenario, five points more confident, as CSV
  portfolio-forecast --scenario Optimistic --sensitivity 5 --output-format csv

  # Include break-even offsets and the full sensitivity sweep
  portfolio-forecast --break-even --sweep`,
	Version:      version,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, logger, err := loadConfigAndLogger()
		if err != nil {
			return err
		}
		defer func() {
			_ = logger.Sync()
		}()

		opts := evaluateOptions{
			OutputFormat: outputFormatFlag,
			BreakEven:    breakEvenFlag,
			Sweep:        sweepFlag,
		}
		if cmd.Flags().Changed("scenario") {
			opts.Scenario = scenarioFlag
		}
		if cmd.Flags().Changed("sensitivity") {
			opts.Sensitivity = &sensitivityFlag
		}
		return runEvaluate(cmd.Context(), logger, conf, opts, cmd.OutOrStdout())
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configLocation, "config", constants.DefaultConfigFile, "path to configuration file")
	pf.StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	f := rootCmd.Flags()
	f.StringVar(&outputFormatFlag, "output-format", "", "type of output override: pretty, csv, json")
	f.StringVar(&scenarioFlag, "scenario", "", "scenario key override (e.g. Base, Optimistic, Conservative)")
	f.Float64Var(&sensitivityFlag, "sensitivity", 0, "sensitivity offset override in confidence points")
	f.BoolVar(&breakEvenFlag, "break-even", false, "report the break-even sensitivity of every scenario")
	f.BoolVar(&sweepFlag, "sweep", false, "report the probability across the -10 to +10 sensitivity range")
}

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var config zap.Config
	switch format {
	case "console":
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		// Test if we can create/write to the file
		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		config.OutputPaths = []string{loggingConfig.OutputFile}
		config.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return config.Build()
}

func loadConfigAndLogger() (*config.Configuration, *zap.Logger, error) {
	conf, err := config.LoadConfiguration(configLocation)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration at %s: %w", configLocation, err)
	}

	logger, err := initializeLogger(conf.Logging, logLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return conf, logger, nil
}

// evaluateOptions are the command-line overrides of a single evaluation.
type evaluateOptions struct {
	OutputFormat string
	Scenario     string
	Sensitivity  *float64
	BreakEven    bool
	Sweep        bool
}

func runEvaluate(ctx context.Context, logger *zap.Logger, conf *config.Configuration, opts evaluateOptions, w io.Writer) error {
	if opts.OutputFormat != "" {
		conf.Output.Format = opts.OutputFormat
	}
	if opts.Scenario != "" {
		conf.Selection.Scenario = opts.Scenario
	}
	if opts.Sensitivity != nil {
		conf.Selection.Sensitivity = *opts.Sensitivity
	}

	if err := conf.Validate(); err != nil {
		return err
	}

	def, err := conf.Selected()
	if err != nil {
		return err
	}
	registry, err := conf.Registry()
	if err != nil {
		return err
	}

	assessed, err := loadPortfolio(ctx, logger, conf)
	if err != nil {
		return err
	}
	conf.Portfolio.Portfolio = assessed
	warnings := prepareConfiguration(logger, conf)
	p := conf.Portfolio.Portfolio

	sim := simulation.New(logger, conf.SimulationOptions())
	in := simulation.InputFor(p, def, conf.Selection.Sensitivity)
	result, err := sim.Run(ctx, in)
	if err != nil {
		return fmt.Errorf("failed to estimate probability: %w", err)
	}

	report := output.Report{
		Evaluation:   portfolio.Evaluate(p, def, conf.Selection.Sensitivity),
		Probability:  &result,
		Coverage:     &p.Coverage,
		Stakeholders: p.StakeholderStrategies(),
		Warnings:     warnings,
	}

	if opts.Sweep {
		points, err := sim.Sweep(ctx, in)
		if err != nil {
			return fmt.Errorf("failed to run sensitivity sweep: %w", err)
		}
		report.Sweep = points
	}

	if opts.BreakEven || conf.Optimizer.Enabled {
		runner, err := optimizer.NewRunner(logger, registry, sim, conf.Optimizer)
		if err != nil {
			return fmt.Errorf("failed to initialize optimizer: %w", err)
		}
		res, err := runner.Run(ctx, p, conf.Selection.Sensitivity)
		if err != nil {
			return fmt.Errorf("optimizer execution failed: %w", err)
		}
		report.BreakEven = res.Summaries
	}

	logger.Info("portfolio evaluated",
		zap.String("op", "main"),
		zap.String("scenario", def.Key),
		zap.Float64("sensitivity", conf.Selection.Sensitivity),
		zap.Int("items", len(p.Items)),
		zap.Float64("weighted", report.Evaluation.TotalWeighted),
		zap.Float64("probability", result.Probability),
	)

	return output.Write(w, conf.Output.Format, report)
}

// prepareConfiguration coerces unusable values and logs every warning. The
// warnings are returned for inclusion in the report.
func prepareConfiguration(logger *zap.Logger, conf *config.Configuration) []string {
	warnings := conf.Sanitize()
	warnings = append(warnings, conf.ValidateConfiguration()...)
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}
	return warnings
}

// loadPortfolio returns the configured portfolio, or the assessed one when an
// assessment service is configured. Coverage and stakeholder data always come
// from the configuration.
func loadPortfolio(ctx context.Context, logger *zap.Logger, conf *config.Configuration) (portfolio.Portfolio, error) {
	p := conf.Portfolio.Portfolio
	if !conf.Assessment.Enabled() {
		return p, nil
	}

	target := conf.Assessment.Target
	if target == 0 {
		target = p.Target
	}

	client := assessment.NewClient(conf.Assessment.BaseURL, logger,
		assessment.WithTimeout(conf.Assessment.TimeoutDuration()),
		assessment.WithRateLimit(conf.Assessment.RequestsPerSecond),
	)
	assessed, err := client.Portfolio(ctx, target)
	if err != nil {
		return portfolio.Portfolio{}, fmt.Errorf("failed to fetch assessed portfolio: %w", err)
	}

	p.Target = assessed.Target
	p.Items = assessed.Items
	return p, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
