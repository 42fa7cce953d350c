package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var podsCmd = &cobra.Command{
	Use:   "pods",
	Short: "List pods in a namespace",
	RunE:  runPods,
}

var isolateCmd = &cobra.Command{
	Use:   "isolate",
	Short: "Isolate a pod from the network",
	Long:  `Posts a network-scan alert for the pod so the gateway applies the isolation label.`,
	RunE:  runIsolate,
}

var unisolateCmd = &cobra.Command{
	Use:   "unisolate",
	Short: "Restore a pod's network connectivity",
	RunE:  runUnisolate,
}

func init() {
	rootCmd.AddCommand(podsCmd)
	rootCmd.AddCommand(isolateCmd)
	rootCmd.AddCommand(unisolateCmd)

	podsCmd.Flags().StringP("namespace", "n", "", "Namespace to list")
	_ = podsCmd.MarkFlagRequired("namespace")

	isolateCmd.Flags().StringP("namespace", "n", "", "Pod namespace")
	isolateCmd.Flags().StringP("pod", "p", "", "Pod name")
	_ = isolateCmd.MarkFlagRequired("namespace")
	_ = isolateCmd.MarkFlagRequired("pod")

	unisolateCmd.Flags().StringP("namespace", "n", "", "Pod namespace")
	unisolateCmd.Flags().StringP("pod", "p", "", "Pod name")
	_ = unisolateCmd.MarkFlagRequired("namespace")
	_ = unisolateCmd.MarkFlagRequired("pod")
}

func runPods(cmd *cobra.Command, _ []string) error {
	client, err := apiClient(cmd)
	if err != nil {
		return err
	}
	namespace, _ := cmd.Flags().GetString("namespace")

	var pods []struct {
		Name   string `json:"name"`
		Status string `json:"status"`
		Age    string `json:"age"`
	}
	resp, err := client.R().
		SetQueryParam("namespace", namespace).
		SetResult(&pods).
		Get("/get-pod")
	if err != nil {
		return err
	}
	if err := checkStatus(resp); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTATUS\tAGE")
	for _, p := range pods {
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.Name, p.Status, p.Age)
	}
	return w.Flush()
}

func runIsolate(cmd *cobra.Command, _ []string) error {
	client, err := apiClient(cmd)
	if err != nil {
		return err
	}
	namespace, _ := cmd.Flags().GetString("namespace")
	pod, _ := cmd.Flags().GetString("pod")

	fields, err := json.Marshal(map[string]string{
		"k8s.ns.name":  namespace,
		"k8s.pod.name": pod,
	})
	if err != nil {
		return err
	}
	alert := map[string]json.RawMessage{
		"rule":          json.RawMessage(`"network_scan_process_in_container"`),
		"output_fields": fields,
	}

	resp, err := client.R().SetBody(alert).Post("/isolate-pod")
	if err != nil {
		return err
	}
	if err := checkStatus(resp); err != nil {
		return err
	}
	fmt.Println(resp.String())
	return nil
}

func runUnisolate(cmd *cobra.Command, _ []string) error {
	client, err := apiClient(cmd)
	if err != nil {
		return err
	}
	namespace, _ := cmd.Flags().GetString("namespace")
	pod, _ := cmd.Flags().GetString("pod")

	resp, err := client.R().
		SetBody(map[string]string{"namespace": namespace, "pod_name": pod}).
		Post("/unisolate-pod")
	if err != nil {
		return err
	}
	if err := checkStatus(resp); err != nil {
		return err
	}
	fmt.Println(resp.String())
	return nil
}
