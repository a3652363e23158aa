// Package commands implements the CLI commands for sitecrawl.
package commands

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/sitecrawl/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "sitecrawl",
	Short: "Crawl one site and count its internal links",
	Long: `Sitecrawl walks every page of a single site reachable from a seed URL
and reports how often each page is linked from the others.

Only pages on the seed's exact host are followed. The crawl is bounded by
a page cap and by the number of fetches allowed in flight at once.

Examples:
  # Crawl with the defaults (3 concurrent fetches, 10 pages)
  sitecrawl crawl https://example.com

  # 5 concurrent fetches, up to 200 pages
  sitecrawl crawl https://example.com 5 200

  # Machine-readable report
  sitecrawl crawl https://example.com 5 200 --format json -o report.json`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(logger.Options{
			Debug: viper.GetBool("debug"),
			Quiet: viper.GetBool("quiet"),
			JSON:  viper.GetBool("log_json"),
		})
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.sitecrawl.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "only log errors")
	rootCmd.PersistentFlags().Bool("log-json", false, "emit logs as JSON")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("log_json", rootCmd.PersistentFlags().Lookup("log-json"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".sitecrawl")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	viper.SetEnvPrefix("SITECRAWL")
	viper.AutomaticEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
