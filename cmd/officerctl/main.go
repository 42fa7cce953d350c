package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:     "officerctl",
	Short:   "Command-line client for the officer gateway",
	Long:    `officerctl drives the officer HTTP API: pod listing, isolation, deployment restarts and deploys.`,
	Version: version,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("server", envOr("OFFICER_URL", "http://localhost:8000"), "Officer base URL")
	rootCmd.PersistentFlags().String("api-key", os.Getenv("OFFICER_API_KEY"), "Static API key (x-api-key header)")
	rootCmd.PersistentFlags().String("token", os.Getenv("OFFICER_TOKEN"), "Session token (Authorization: Bearer)")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
