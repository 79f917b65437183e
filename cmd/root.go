package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vyapar-labs/siterisk/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "siterisk",
	Short: "Location risk analysis for Delhi business sites",
	Long:  "Scores the risk of opening a business at a Delhi location using curated event, infrastructure, and area datasets, and serves the analysis over an HTTP JSON API.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
