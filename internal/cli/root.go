// Package cli implements the tabular command line interface.
package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	debug    bool
	jsonLogs bool
	version  = "v0.1.0"

	rootCmd = &cobra.Command{
		Use:   "tabular",
		Short: "Multi-task prediction heads for tabular models",
		Long: `Tabular ML builds multi-task prediction heads from column metadata:
binary classification and regression tasks over a shared feature
representation, with per-task losses, metrics, and loss weighting.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug {
				logrus.SetLevel(logrus.DebugLevel)
				logrus.Debug("Debug logging enabled")
			} else {
				logrus.SetLevel(logrus.InfoLevel)
			}
			if jsonLogs {
				logrus.SetFormatter(&logrus.JSONFormatter{})
			} else {
				logrus.SetFormatter(&logrus.TextFormatter{
					FullTimestamp: true,
				})
			}
		},
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json", false, "Output logs in JSON format")

	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(schemaCmd)
}
