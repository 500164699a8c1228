// Package cmd provides the CLI commands for costwatch.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"costwatch/internal/config"
	"costwatch/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "costwatch",
	Short: "Budget analytics over multi-cloud billing data",
	Long: `costwatch evaluates named cost metrics - period-to-date spend,
prorated budgets, drift, utilization and forecasts - across AWS, Azure
and GCP billing data.

Examples:
  costwatch catalog --provider aws
  costwatch evaluate monthly_budget_drift_percentage --rows billing.json
  costwatch evaluate ecc_month_to_date_cost --rows billing.json --now 2024-06-10T00:00:00Z`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.costwatch.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	cfg := config.Get()
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("costwatch version 1.0.0")
	},
}
