package cli

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/engine/batch"
	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/engine/loader"
	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/engine/pipeline"
	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/engine/sink"
	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/pkg/config"
	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/pkg/logger"
)

func BatchCmd() *cobra.Command {
	var (
		dir        string
		configPath string
		csvOut     string
		jsonOut    string
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Analyze a directory of force curve files",
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
			ld := loader.New(fs, 2*cfg.Analysis.SmoothingWindow)
			runner := batch.New(fs, ld, p, cfg.Batch.Workers)

			ctx := logger.ContextWithLogger(cmd.Context(), logger.GetDefault())
			records, err := runner.Run(ctx, dir, cfg.Batch.Pattern)
			if err != nil {
				return err
			}

			out := sink.New(fs)
			if err := out.WriteCSV(csvOut, records); err != nil {
				return err
			}
			if jsonOut != "" {
				if err := out.WriteJSON(jsonOut, records); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "directory of force curve files")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "analysis configuration YAML file")
	cmd.Flags().StringVarP(&csvOut, "out", "o", "results.csv", "CSV summary output path")
	cmd.Flags().StringVar(&jsonOut, "json", "", "write full results as JSON to this path")
	if err := cmd.MarkFlagRequired("dir"); err != nil {
		panic(fmt.Sprintf("batch command: %v", err))
	}
	return cmd
}
