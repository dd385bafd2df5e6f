package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const app = "job-discovery"

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "job-discovery finds, scores and triages job listings from configured sources",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("telegram-token", "TELEGRAM_BOT_TOKEN"); err != nil {
		log.Fatalf("binding TELEGRAM_BOT_TOKEN environment variable: %v", err)
	}
	if err := viper.BindEnv("data-dir", "JOB_DISCOVERY_DATA_DIR"); err != nil {
		log.Fatalf("binding JOB_DISCOVERY_DATA_DIR environment variable: %v", err)
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is config.yml in the data dir)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}
