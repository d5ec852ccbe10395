// Package output provides utilities for formatting and displaying evaluation results.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/portfolio-forecast/internal/portfolio"
	"github.com/iwvelando/portfolio-forecast/internal/simulation"
	"github.com/iwvelando/portfolio-forecast/pkg/constants"
	"github.com/iwvelando/portfolio-forecast/pkg/format"
	"github.com/iwvelando/portfolio-forecast/pkg/optimization"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Report is everything the CLI and API present for one evaluation.
type Report struct {
	Evaluation   portfolio.Evaluation        `json:"evaluation"`
	Probability  *simulation.Result          `json:"probability,omitempty"`
	Sweep        []simulation.SweepPoint     `json:"sweep,omitempty"`
	BreakEven    []optimization.Summary      `json:"breakEven,omitempty"`
	Coverage     *portfolio.Coverage         `json:"coverage,omitempty"`
	Stakeholders []portfolio.StakeholderView `json:"stakeholders,omitempty"`
	Warnings     []string                    `json:"warnings,omitempty"`
}

// Write renders the report in the named format.
func Write(w io.Writer, outputFormat string, report Report) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		PrettyFormat(w, report)
		return nil
	case constants.OutputFormatCSV:
		CsvFormat(w, report)
		return nil
	case constants.OutputFormatJSON:
		return JSONFormat(w, report)
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, report Report) {
	p := message.NewPrinter(language.English)
	eval := report.Evaluation

	fmt.Fprintf(w, "--- Results for scenario %s (x%.2f), sensitivity %+g pts ---\n",
		eval.Scenario.Label, eval.Scenario.Multiplier, eval.Sensitivity)
	fmt.Fprintf(w, "ID      | Name                     | Gross     | Base   | Adjusted | Realized  | Band                 | Quadrant\n")
	fmt.Fprintf(w, "__      | ____                     | _____     | ____   | ________ | ________  | ____                 | ________\n")
	for _, item := range eval.Items {
		fmt.Fprintf(w, "%-7s | %-24s | %-9s | %5.1f%% | %7.1f%% | %-9s | %-20s | %s\n",
			item.ID, truncate(item.Name, 24), format.Millions(item.Gross),
			item.BaseConfidence, item.AdjustedConfidence, format.Millions(item.RealizedValue),
			item.Band, item.Quadrant)
	}

	fmt.Fprintf(w, "\nTotal gross:    %s\n", format.Millions(eval.TotalGross))
	fmt.Fprintf(w, "Weighted total: %s\n", format.Millions(eval.TotalWeighted))
	fmt.Fprintf(w, "Target:         %s\n", format.Millions(eval.Target))
	if eval.TargetMet() {
		fmt.Fprintf(w, "Surplus:        %s\n", format.Millions(eval.Surplus()))
	} else {
		fmt.Fprintf(w, "Gap:            %s\n", format.Millions(eval.Gap))
	}
	fmt.Fprintf(w, "Realization:    %s\n", format.Percent(eval.Realization))

	if report.Probability != nil {
		prob := report.Probability
		_, _ = p.Fprintf(w, "Probability of hitting target: %s (%d trials)\n", format.Percent(prob.Probability), prob.Trials)
		if d := prob.Distribution; d != nil {
			fmt.Fprintf(w, "Simulated totals: P10 %s | P50 %s | P90 %s | mean %s\n",
				format.Millions(d.P10), format.Millions(d.P50), format.Millions(d.P90), format.Millions(d.Mean))
		}
	}

	if report.Coverage != nil {
		fmt.Fprintf(w, "Data coverage: cost %s | usage %s | dependency %s\n",
			format.Percent(report.Coverage.Cost), format.Percent(report.Coverage.Usage), format.Percent(report.Coverage.Dependency))
	}

	if len(eval.Segments) > 0 {
		fmt.Fprintf(w, "\n--- Segments ---\n")
		for _, seg := range eval.Segments {
			fmt.Fprintf(w, "%-24s | %d items | gross %s | weighted %s\n",
				truncate(seg.Segment, 24), seg.Items, format.Millions(seg.Gross), format.Millions(seg.Weighted))
		}
	}

	if hasUplift(eval.Items) {
		fmt.Fprintf(w, "\n--- Uplift potential ---\n")
		for _, item := range eval.Items {
			if item.UpliftConfidence == item.AdjustedConfidence {
				continue
			}
			fmt.Fprintf(w, "%-7s | %.1f%% -> %.1f%% | %s -> %s\n",
				item.ID, item.AdjustedConfidence, item.UpliftConfidence,
				format.Millions(item.RealizedValue), format.Millions(item.UpliftValue))
		}
	}

	if len(report.BreakEven) > 0 {
		fmt.Fprintf(w, "\n--- Break-even sensitivity ---\n")
		for _, s := range report.BreakEven {
			status := "converged"
			if !s.Converged {
				status = "not reached"
			}
			fmt.Fprintf(w, "%-14s | %s | %s after %d iterations\n", s.Scenario, s.ValueDisplay, status, s.Iterations)
			for _, note := range s.Notes {
				fmt.Fprintf(w, "    note: %s\n", note)
			}
		}
	}

	if len(report.Sweep) > 0 {
		fmt.Fprintf(w, "\n--- Sensitivity sweep ---\n")
		fmt.Fprintf(w, "Offset | Weighted  | Probability\n")
		for _, pt := range report.Sweep {
			fmt.Fprintf(w, "%+6g | %-9s | %s\n", pt.Sensitivity, format.Millions(pt.TotalWeighted), format.Percent(pt.Probability))
		}
	}

	if len(report.Stakeholders) > 0 {
		fmt.Fprintf(w, "\n--- Stakeholders ---\n")
		for _, s := range report.Stakeholders {
			fmt.Fprintf(w, "%-20s | influence %-6s | resistance %-6s | %s\n", s.Group, s.Influence, s.Resistance, s.Strategy)
		}
	}

	for _, warning := range report.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
}

// CsvFormat outputs in comma-separated value format, one row per item
// followed by a total row.
func CsvFormat(w io.Writer, report Report) {
	eval := report.Evaluation
	fmt.Fprintf(w, `"id","name","segment","gross","base confidence","adjusted confidence","realized value","band","quadrant"`)
	fmt.Fprintf(w, "\n")
	for _, item := range eval.Items {
		fmt.Fprintf(w, `"%s","%s","%s","%s","%.1f","%.1f","%.4f","%s","%s"`,
			quote(item.ID), quote(item.Name), quote(item.Segment), format.NumericMillions(item.Gross),
			item.BaseConfidence, item.AdjustedConfidence, item.RealizedValue,
			quote(item.Band), quote(item.Quadrant))
		fmt.Fprintf(w, "\n")
	}
	fmt.Fprintf(w, `"TOTAL","%s","","%s","","","%.4f","",""`,
		quote(eval.Scenario.Key), format.NumericMillions(eval.TotalGross), eval.TotalWeighted)
	fmt.Fprintf(w, "\n")

	if report.Probability != nil {
		fmt.Fprintf(w, `"PROBABILITY","","","","","","%.1f","",""`, report.Probability.Probability)
		fmt.Fprintf(w, "\n")
	}
}

// JSONFormat outputs the full report as indented JSON.
func JSONFormat(w io.Writer, report Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func quote(s string) string {
	return strings.ReplaceAll(s, `"`, `""`)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func hasUplift(items []portfolio.ItemResult) bool {
	for _, item := range items {
		if item.UpliftConfidence != item.AdjustedConfidence {
			return true
		}
	}
	return false
}

// WriteSweep renders a sensitivity sweep on its own.
func WriteSweep(w io.Writer, outputFormat, scenarioLabel string, points []simulation.SweepPoint) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		fmt.Fprintf(w, "--- Sensitivity sweep for scenario %s ---\n", scenarioLabel)
		fmt.Fprintf(w, "Offset | Weighted  | Probability\n")
		for _, pt := range points {
			fmt.Fprintf(w, "%+6g | %-9s | %s\n", pt.Sensitivity, format.Millions(pt.TotalWeighted), format.Percent(pt.Probability))
		}
		return nil
	case constants.OutputFormatCSV:
		fmt.Fprintf(w, `"sensitivity","weighted total","probability"`)
		fmt.Fprintf(w, "\n")
		for _, pt := range points {
			fmt.Fprintf(w, `"%g","%.4f","%.1f"`, pt.Sensitivity, pt.TotalWeighted, pt.Probability)
			fmt.Fprintf(w, "\n")
		}
		return nil
	case constants.OutputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(points)
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}
}
