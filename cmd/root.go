package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/facilityregistry/linker/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "linker",
	Short: "Facility list ingestion and gazetteer matching pipeline",
	Long:  "Ingests contributed facility lists, geocodes addresses, and matches them against a canonical facility registry via a trained gazetteer model.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if v, _ := cmd.Flags().GetString("database-url"); v != "" {
			cfg.Store.DatabaseURL = v
		}

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().String("database-url", "", "override store.database_url")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
