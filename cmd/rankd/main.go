// Package main implements the rankd CLI for ranking content chunks and
// managing the local chunk store.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/rankd/internal/config"
	"github.com/fyrsmithlabs/rankd/internal/logging"
)

var (
	// configPath overrides the default config file location
	configPath string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rankd",
	Short: "Multi-signal content ranking",
	Long: `rankd ranks content chunks against a query by combining semantic
relevance, source authority, recency and content quality into a single
fused score. Chunks can be ranked directly from a JSON file or ingested
into a local vector store and ranked from there.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/rankd/config.yaml)")
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(storeCmd)
}

// setup loads configuration and builds the logger shared by all commands.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("creating logger: %w", err)
	}
	return cfg, logger, nil
}
