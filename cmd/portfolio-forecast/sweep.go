package main

import (
	"context"
	"fmt"
	"io"

	"github.com/iwvelando/portfolio-forecast/internal/config"
	"github.com/iwvelando/portfolio-forecast/internal/simulation"
	"github.com/iwvelando/portfolio-forecast/pkg/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	sweepScenario     string
	sweepTarget       float64
	sweepOutputFormat string
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Estimate the probability of hitting the target at every sensitivity offset",
	Long: `Runs the Monte Carlo estimate once for each whole sensitivity offset from
-10 to +10 and prints the weighted total and probability of each.

Examples:
  # Sweep the configured scenario
  portfolio-forecast sweep

  # Sweep the conservative case against a lower target, as JSON
  portfolio-forecast sweep --scenario Conservative --target 45 --output-format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, logger, err := loadConfigAndLogger()
		if err != nil {
			return err
		}
		defer func() {
			_ = logger.Sync()
		}()

		opts := sweepOptions{OutputFormat: sweepOutputFormat, Scenario: sweepScenario}
		if cmd.Flags().Changed("target") {
			opts.Target = &sweepTarget
		}
		return runSweep(cmd.Context(), logger, conf, opts, cmd.OutOrStdout())
	},
}

func init() {
	f := sweepCmd.Flags()
	f.StringVar(&sweepScenario, "scenario", "", "scenario key override")
	f.Float64Var(&sweepTarget, "target", 0, "savings target override in millions")
	f.StringVar(&sweepOutputFormat, "output-format", "", "type of output override: pretty, csv, json")

	rootCmd.AddCommand(sweepCmd)
}

type sweepOptions struct {
	OutputFormat string
	Scenario     string
	Target       *float64
}

func runSweep(ctx context.Context, logger *zap.Logger, conf *config.Configuration, opts sweepOptions, w io.Writer) error {
	if opts.OutputFormat != "" {
		conf.Output.Format = opts.OutputFormat
	}
	if opts.Scenario != "" {
		conf.Selection.Scenario = opts.Scenario
	}
	if err := conf.Validate(); err != nil {
		return err
	}
	def, err := conf.Selected()
	if err != nil {
		return err
	}

	p, err := loadPortfolio(ctx, logger, conf)
	if err != nil {
		return err
	}
	conf.Portfolio.Portfolio = p
	prepareConfiguration(logger, conf)
	p = conf.Portfolio.Portfolio
	if opts.Target != nil {
		p.Target = *opts.Target
	}

	sim := simulation.New(logger, conf.SimulationOptions())
	points, err := sim.Sweep(ctx, simulation.InputFor(p, def, 0))
	if err != nil {
		return fmt.Errorf("failed to run sensitivity sweep: %w", err)
	}

	logger.Info("sensitivity sweep complete",
		zap.String("op", "main.sweep"),
		zap.String("scenario", def.Key),
		zap.Float64("target", p.Target),
		zap.Int("points", len(points)),
	)

	return output.WriteSweep(w, conf.Output.Format, def.Label, points)
}
