package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"resty.dev/v3"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the gateway's health endpoints",
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

// runHealth probes the public health endpoints, so no credential is needed.
func runHealth(cmd *cobra.Command, _ []string) error {
	server, _ := cmd.Flags().GetString("server")
	client := resty.New().SetBaseURL(server)

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := client.R().Get(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		fmt.Printf("%-8s %s\n", path, resp.Status())
	}
	return nil
}
