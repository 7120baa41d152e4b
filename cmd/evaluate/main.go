// Command evaluate scores the diagnostic pipeline on synthetic error cases.
//
// By default only the deterministic stages run (no network). With --live the
// configured AI provider is called for every case and its diagnosis is scored
// against the ground-truth labels.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/AlyonaCIA/AI-diagnostic/internal/ai"
	"github.com/AlyonaCIA/AI-diagnostic/internal/config"
	"github.com/AlyonaCIA/AI-diagnostic/internal/eval"
	"github.com/AlyonaCIA/AI-diagnostic/internal/logparse"
	"github.com/AlyonaCIA/AI-diagnostic/internal/plcxml"
)

var (
	numConstant int
	numCodeGen  int
	live        bool
	outputPath  string
	format      string
)

func main() {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate the PLC diagnostic pipeline on synthetic error cases",
		Long: `Generate synthetic constant-assignment and code-generation error cases,
run them through the diagnostic pipeline and report accuracy metrics.

Examples:
  # Offline: score the deterministic classifier and extractor only
  evaluate --constant 10 --codegen 10

  # Include live AI diagnosis (uses AI_PROVIDER configuration)
  AI_PROVIDER=mock evaluate --live --output report.yaml --format yaml`,
		RunE: runEvaluate,
	}

	cmd.Flags().IntVar(&numConstant, "constant", 10, "Number of constant-assignment cases")
	cmd.Flags().IntVar(&numCodeGen, "codegen", 10, "Number of code-generation crash cases")
	cmd.Flags().BoolVar(&live, "live", false, "Call the configured AI provider for each case")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Report format (json, yaml)")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	if format != "json" && format != "yaml" {
		return fmt.Errorf("unsupported format %q (json, yaml)", format)
	}

	cases := eval.GenerateConstantErrors(numConstant)
	cases = append(cases, eval.GenerateCodeGenCrashes(numCodeGen)...)

	var svc *ai.DiagnosisService
	if live {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		provider, err := ai.NewProvider(cfg.AI)
		if err != nil {
			return fmt.Errorf("create AI provider: %w", err)
		}
		svc = ai.NewDiagnosisService(provider, cfg.AI.InferenceTimeout)
		fmt.Printf("Evaluating %d cases against provider %s\n\n", len(cases), provider.Name())
	} else {
		fmt.Printf("Evaluating %d cases (deterministic pipeline only)\n\n", len(cases))
	}

	pass := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed).SprintFunc()

	results := make([]eval.CaseResult, 0, len(cases))
	for i, c := range cases {
		res := runCase(cmd.Context(), c, svc)
		results = append(results, res)

		status := pass("PASS")
		if !res.CorrectStage || res.Err != "" {
			status = fail("FAIL")
		}
		fmt.Printf("  [%s] case %02d %-16s stage_ok=%-5v line_ok=%v\n",
			status, i+1, c.Kind, res.CorrectStage, res.CorrectLine)
	}

	report := eval.Summarize(results)
	fmt.Printf("\nStage accuracy: %.1f%%  Line accuracy: %.1f%%  Failures: %d\n",
		report.StageAccuracy*100, report.LineAccuracy*100, report.Failures)

	return writeReport(report)
}

func runCase(ctx context.Context, c eval.Case, svc *ai.DiagnosisService) eval.CaseResult {
	start := time.Now()

	if svc == nil {
		desc := logparse.Classify(c.LogText)
		plcxml.Extract(c.XMLContent, desc)
		return eval.ScorePipeline(c, desc, time.Since(start))
	}

	result, err := svc.Diagnose(ctx, c.LogText, c.XMLContent)
	if err != nil {
		res := eval.ScorePipeline(c, logparse.Classify(c.LogText), time.Since(start))
		res.Err = err.Error()
		return res
	}
	return eval.ScoreReport(c, result.Descriptor, result.Report, time.Since(start))
}

func writeReport(report eval.Report) error {
	var (
		out []byte
		err error
	)
	switch format {
	case "yaml":
		out, err = yaml.Marshal(report)
	default:
		out, err = json.MarshalIndent(report, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if outputPath == "" {
		fmt.Println(string(out))
		return nil
	}
	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Printf("Report written to %s\n", outputPath)
	return nil
}
