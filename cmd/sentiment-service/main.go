package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "sentiment-service",
		Short: "Per-author social media sentiment against the market",
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config-sentiment.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd, reportCmd, exportCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing sentiment-service CLI: %s\n", err)
		os.Exit(1)
	}
}
