package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"resty.dev/v3"
)

// apiClient builds a resty client from the persistent flags. The API key
// wins over the session token when both are set, mirroring the gateway's
// own precedence.
func apiClient(cmd *cobra.Command) (*resty.Client, error) {
	server, _ := cmd.Flags().GetString("server")
	apiKey, _ := cmd.Flags().GetString("api-key")
	token, _ := cmd.Flags().GetString("token")

	if apiKey == "" && token == "" {
		return nil, fmt.Errorf("no credential: set --api-key/--token or OFFICER_API_KEY/OFFICER_TOKEN")
	}

	client := resty.New().SetBaseURL(server)
	if apiKey != "" {
		client.SetHeader("x-api-key", apiKey)
	} else {
		client.SetAuthToken(token)
	}
	return client, nil
}

// checkStatus turns a non-2xx API answer into an error carrying the body,
// which is the gateway's {"error": ...} payload.
func checkStatus(resp *resty.Response) error {
	if resp.IsError() {
		return fmt.Errorf("%s: %s", resp.Status(), resp.String())
	}
	return nil
}
