package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/perflens/perflens/internal/baseline"
	"github.com/perflens/perflens/internal/config"
	"github.com/perflens/perflens/internal/pipeline"
	"github.com/perflens/perflens/internal/render"
	"github.com/perflens/perflens/pkg/interactive"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Launch interactive mode",
	Long:  `Launches the interactive menu for analyzing result logs.`,
	Run: func(_ *cobra.Command, _ []string) {
		RunInteractive()
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

// RunInteractive drives the interactive menu loop until the user exits.
func RunInteractive() {
	fmt.Println("Perflens - Interactive Mode")
	fmt.Println("===========================")
	fmt.Println()

	for {
		options := []interactive.MenuOption{
			{
				Name:        "Analyze",
				Description: "Analyze a result log file",
				Action: func() error {
					if err := interactiveAnalyze(); err != nil {
						fmt.Printf("\nError: %v\n", err)
					}
					interactive.PauseForEnter()
					return nil
				},
			},
			{
				Name:        "Show Config",
				Description: "Display current environment configuration",
				Action: func() error {
					cfg, err := config.Load()
					if err != nil {
						fmt.Printf("\nError: %v\n", err)
					} else {
						fmt.Println(cfg.String())
					}
					interactive.PauseForEnter()
					return nil
				},
			},
		}

		if err := interactive.ShowMenu("What would you like to do?", options); err != nil {
			if errors.Is(err, interactive.ErrExit) {
				fmt.Println("Goodbye!")
				return
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		fmt.Println()
	}
}

func interactiveAnalyze() error {
	path, err := interactive.AskPath("Result log to analyze:")
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var baselineCfg *baseline.Config
	if cfg.BaselinePath != "" && interactive.Confirm(fmt.Sprintf("Evaluate against baseline %s?", cfg.BaselinePath)) {
		baselineCfg, err = baseline.LoadConfig(Logger, cfg.BaselinePath)
		if err != nil {
			return fmt.Errorf("loading baseline: %w", err)
		}
	}

	svc := pipeline.NewService(Logger, pipeline.Config{
		Baseline: baselineCfg,
		Workers:  cfg.Workers,
	})

	run, err := svc.AnalyzeFile(context.Background(), path)
	if err != nil {
		return err
	}

	fmt.Println()
	render.NewRenderer(Logger).RenderRun(os.Stdout, run)

	return nil
}
