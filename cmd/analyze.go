package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/perflens/perflens/internal/baseline"
	"github.com/perflens/perflens/internal/config"
	"github.com/perflens/perflens/internal/pipeline"
	"github.com/perflens/perflens/internal/render"
	"github.com/perflens/perflens/internal/summary"
)

var errBaselineFailed = errors.New("one or more labels failed baseline evaluation")

var (
	analyzeBaseline  string
	analyzeJSONDir   string
	analyzeFailOnSLA bool
	analyzeVerbose   bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>...",
	Short: "Analyze one or more load-test result logs",
	Long: `Analyze one or more result logs (JTL files, XML or CSV flavor).

Each file is one independent run: it is decoded, aggregated globally and per
label, evaluated against the baseline config (if one is given), and rendered
as a metrics table plus an evaluation table.

Examples:
  perflens analyze results.jtl
  perflens analyze --baseline baseline.yaml results.jtl
  perflens analyze --json out/ run1.jtl run2.jtl`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		log := newLogger(analyzeVerbose)

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		baselinePath := analyzeBaseline
		if baselinePath == "" {
			baselinePath = cfg.BaselinePath
		}

		var baselineCfg *baseline.Config
		if baselinePath != "" {
			baselineCfg, err = baseline.LoadConfig(log, baselinePath)
			if err != nil {
				return fmt.Errorf("loading baseline: %w", err)
			}
		}

		svc := pipeline.NewService(log, pipeline.Config{
			Baseline: baselineCfg,
			Workers:  cfg.Workers,
		})

		ctx := context.Background()
		if err := svc.Start(ctx); err != nil {
			return fmt.Errorf("starting pipeline: %w", err)
		}
		defer func() {
			if err := svc.Stop(); err != nil {
				log.WithError(err).Warn("failed to stop pipeline")
			}
		}()

		runs, err := svc.AnalyzeFiles(ctx, args)
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}

		renderer := render.NewRenderer(log)

		failed := false
		for _, run := range runs {
			renderer.RenderRun(os.Stdout, run)
			fmt.Println()

			if !run.Evaluation.Passed() {
				failed = true
			}

			if analyzeJSONDir != "" {
				if err := exportJSON(analyzeJSONDir, run); err != nil {
					return err
				}
			}
		}

		if failed && analyzeFailOnSLA {
			return errBaselineFailed
		}

		return nil
	},
}

// exportJSON writes one run summary to <dir>/<source-stem>.summary.json.
func exportJSON(dir string, run *summary.RunSummary) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir %s: %w", dir, err)
	}

	stem := strings.TrimSuffix(filepath.Base(run.Source), filepath.Ext(run.Source))
	path := filepath.Join(dir, stem+".summary.json")

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := run.WriteJSON(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeBaseline, "baseline", "b", "", "baseline config YAML (thresholds + expected testcases)")
	analyzeCmd.Flags().StringVar(&analyzeJSONDir, "json", "", "directory to write per-run JSON summaries to")
	analyzeCmd.Flags().BoolVar(&analyzeFailOnSLA, "fail-on-sla", false, "exit non-zero when any evaluated label fails")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(analyzeCmd)
}
