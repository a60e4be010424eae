package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bookstore-reporting/internal/config"
	"bookstore-reporting/pkg/logger"
)

var (
	rootCmd = &cobra.Command{
		Use:           "statsctl",
		Short:         "Bookstore sales reporting from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
			decimal.MarshalJSONWithoutQuotes = true
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the statsctl version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}

	cfgFile string
	version = "dev" // -ldflags "-X main.version=..."
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to configuration file (optional)")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(reportCommands()...)
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(cacheCmd())

	if err := rootCmd.Execute(); err != nil {
		logger.Error("statsctl failed", err)
		os.Exit(1)
	}
}

// loadConfig đọc config giống API; --config ghi đè CONFIG_FILE
func loadConfig() (*config.Config, error) {
	v := viper.New()
	if cfgFile != "" {
		v.Set("CONFIG_FILE", cfgFile)
	}

	cfg, err := config.LoadFrom(v)
	if err != nil {
		return nil, err
	}

	// CLI log ra stderr, stdout dành cho JSON
	logger.Init(cfg.App.Environment, cfg.App.LogLevel)
	return cfg, nil
}
