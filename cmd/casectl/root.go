package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fraud-alert-agent/internal/bootstrap"
	"fraud-alert-agent/internal/config"
	"fraud-alert-agent/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "casectl",
	Short: "Inspect and seed the fraud case store",
	Long: "casectl works against the same store the call handler uses: the DynamoDB\n" +
		"tables when CASES_TABLE and STATE_TABLE are set, otherwise an in-memory store\n" +
		"loaded from the seed snapshot.",
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.Version = version
}

// openRuntime wires the configured store. Log output goes to stderr so it
// never mixes with command output.
var openRuntime = func(cmd *cobra.Command, autoSeed bool) (*bootstrap.Runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.LogLevel, "text")
	rt, err := bootstrap.Open(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, err
	}
	// The in-memory store starts empty on every run.
	if autoSeed && !cfg.UseDynamo() {
		if _, err := rt.Seed(cmd.Context(), nil); err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
	}
	return rt, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
