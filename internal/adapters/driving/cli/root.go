// Package cli provides the cobra command tree for sitenodes.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/hedgehq/sitenodes/internal/adapters/driven/config/file"
	"github.com/hedgehq/sitenodes/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verboseFlag bool
	configFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "sitenodes",
	Short: "Build-time content sourcing for the website",
	Long: `sitenodes fetches the website's external content feeds (API schema,
issues, pull requests and partner catalogs), normalises them into typed
content nodes and stores them for page templates to query at build time.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", file.DefaultPath, "path to the config file")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}
