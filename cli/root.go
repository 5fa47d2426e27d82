package cli

import (
	"github.com/spf13/cobra"

	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/pkg/logger"
)

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "afm-analyze",
		Short: "Analyze AFM nanoindentation force curves",
		Long: "Extracts elastic modulus, contact point and hysteresis metrics from " +
			"force-displacement curves using Hertz or Sneddon contact mechanics.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logLevel, logJSON, logSource, err := logger.GetLoggerConfig(cmd)
			if err != nil {
				return err
			}
			logger.SetupLogger(logLevel, logJSON, logSource)
			return nil
		},
	}
	logger.RegisterFlags(root)

	root.AddCommand(
		AnalyzeCmd(),
		BatchCmd(),
	)

	return root
}
