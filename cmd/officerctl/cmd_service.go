package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var restartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Roll a service deployment's pods",
	RunE:  runRestart,
}

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy a new version of a service",
	RunE:  runDeploy,
}

func init() {
	rootCmd.AddCommand(restartCmd)
	rootCmd.AddCommand(deployCmd)

	restartCmd.Flags().StringP("namespace", "n", "", "Deployment namespace")
	restartCmd.Flags().StringP("deployment", "d", "", "Deployment name")
	_ = restartCmd.MarkFlagRequired("namespace")
	_ = restartCmd.MarkFlagRequired("deployment")

	deployCmd.Flags().StringP("namespace", "n", "", "Deployment namespace")
	deployCmd.Flags().StringP("deployment", "d", "", "Deployment name")
	deployCmd.Flags().StringP("container", "c", "", "Container to retag")
	deployCmd.Flags().String("version", "", "Image tag to deploy")
	_ = deployCmd.MarkFlagRequired("namespace")
	_ = deployCmd.MarkFlagRequired("deployment")
	_ = deployCmd.MarkFlagRequired("container")
	_ = deployCmd.MarkFlagRequired("version")
}

func runRestart(cmd *cobra.Command, _ []string) error {
	client, err := apiClient(cmd)
	if err != nil {
		return err
	}
	namespace, _ := cmd.Flags().GetString("namespace")
	deployment, _ := cmd.Flags().GetString("deployment")

	resp, err := client.R().
		SetBody(map[string]string{
			"namespace":          namespace,
			"service_deployment": deployment,
		}).
		Post("/restart-service-deployment")
	if err != nil {
		return err
	}
	if err := checkStatus(resp); err != nil {
		return err
	}
	fmt.Println(resp.String())
	return nil
}

func runDeploy(cmd *cobra.Command, _ []string) error {
	client, err := apiClient(cmd)
	if err != nil {
		return err
	}
	namespace, _ := cmd.Flags().GetString("namespace")
	deployment, _ := cmd.Flags().GetString("deployment")
	container, _ := cmd.Flags().GetString("container")
	version, _ := cmd.Flags().GetString("version")

	resp, err := client.R().
		SetBody(map[string]string{
			"namespace":          namespace,
			"service_deployment": deployment,
			"container_name":     container,
			"version":            version,
		}).
		Post("/deploy-service")
	if err != nil {
		return err
	}
	if err := checkStatus(resp); err != nil {
		return err
	}
	fmt.Println(resp.String())
	return nil
}
