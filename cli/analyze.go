package cli

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/engine/loader"
	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/engine/pipeline"
	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/engine/sink"
	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/pkg/config"
	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/pkg/logger"
)

func AnalyzeCmd() *cobra.Command {
	var (
		inputPath  string
		configPath string
		csvOut     string
		jsonOut    string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a single force curve file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			p, err := pipeline.New(cfg.Analysis)
			if err != nil {
				return err
			}

			fs := afero.NewOsFs()
			cy, err := loader.New(fs, 2*cfg.Analysis.SmoothingWindow).Load(inputPath)
			if err != nil {
				return err
			}

			log := logger.GetDefault().With("source", inputPath)
			ctx := logger.ContextWithLogger(cmd.Context(), log)
			result, err := p.Analyze(ctx, cy.Approach, cy.Retract)
			if err != nil {
				return err
			}
			result.Source = inputPath

			log.Info("analysis complete",
				"contact_index", result.Contact.Index,
				"z0", result.Contact.Z0,
				"modulus_pa", result.Fit.Params.Modulus,
				"r_squared", result.Fit.RSquared,
				"max_indentation_m", result.MaxIndentation,
				"flags", result.Flags)
			if result.Hysteresis != nil {
				log.Info("hysteresis",
					"area_j", result.Hysteresis.Area,
					"loss_ratio", result.Hysteresis.LossRatio,
					"degenerate", result.Hysteresis.Degenerate)
			}

			records := []sink.Record{{Source: inputPath, Result: result}}
			out := sink.New(fs)
			if csvOut != "" {
				if err := out.WriteCSV(csvOut, records); err != nil {
					return err
				}
			}
			if jsonOut != "" {
				if err := out.WriteJSON(jsonOut, records); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "force curve CSV file (displacement, force)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "analysis configuration YAML file")
	cmd.Flags().StringVar(&csvOut, "out", "", "write a one-row CSV summary to this path")
	cmd.Flags().StringVar(&jsonOut, "json", "", "write the full result as JSON to this path")
	if err := cmd.MarkFlagRequired("input"); err != nil {
		panic(fmt.Sprintf("analyze command: %v", err))
	}
	return cmd
}
