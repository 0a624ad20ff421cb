// Command advisor runs the persona and recommendation pipeline against the
// configured stores. The run subcommand executes a batch; the consent
// subcommands manage a user's authorization to be processed at all.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mhollis/finadvisor/internal/config"
	"github.com/mhollis/finadvisor/internal/logging"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:           "advisor",
	Short:         "Financial persona classification and recommendation pipeline",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.AddCommand(runCmd, consentCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "advisor: %v\n", err)
		os.Exit(1)
	}
}

// buildLogger loads config and constructs the zap logger shared by every
// subcommand.
func buildLogger() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("init logging: %w", err)
	}
	return cfg, logger, nil
}
