package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/drndl-code/Predicting-Household-Income-in-The-Philippines/cmd/cli"
	"github.com/drndl-code/Predicting-Household-Income-in-The-Philippines/pkg/logger"
)

var (
	logMode    string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "income",
	Short: "Household income prediction",
	Long:  `Trains a random-forest regression model on the FIES dataset and serves income predictions over HTTP`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		switch logMode {
		case "pretty", "json", "test":
			logger.Init(logger.Mode(logMode))
		default:
			logger.Init(logger.ModePretty)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		cli.RunServer(configPath)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the inference service",
	Run: func(cmd *cobra.Command, args []string) {
		cli.RunServer(configPath)
	},
}

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Run the offline training job",
	Run: func(cmd *cobra.Command, args []string) {
		cli.RunTrain(configPath)
	},
}

func main() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(trainCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logMode, "log", "pretty", "Log mode: pretty, json, test")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/config.yaml", "Path to the config file")
}
