package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Version information - will be set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

func main() {
	rootCmd := &cobra.Command{
		Use:   "strata",
		Short: "Strata relational metadata model tooling",
		Long: `Strata builds and inspects relational mapping metadata: entity types,
properties, keys, foreign keys, and indexes declared in model definition files.`,
		// Subcommands report their own errors through the ui package.
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(diffCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger returns a development logger under --verbose, a nop logger
// otherwise.
func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return log
}
