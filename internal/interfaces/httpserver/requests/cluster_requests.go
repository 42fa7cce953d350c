package requests

import "encoding/json"

// GetPodQuery selects the namespace to list pods in.
type GetPodQuery struct {
	Namespace string `form:"namespace" binding:"required"`
}

// UnisolatePodRequest names the pod to free.
type UnisolatePodRequest struct {
	Namespace string `json:"namespace" binding:"required"`
	PodName   string `json:"pod_name" binding:"required"`
}

// RestartServiceRequest names the deployment to roll.
type RestartServiceRequest struct {
	Namespace         string `json:"namespace" binding:"required"`
	ServiceDeployment string `json:"service_deployment" binding:"required"`
}

// DeployServiceRequest retags one container of a deployment.
type DeployServiceRequest struct {
	Namespace         string `json:"namespace" binding:"required"`
	ServiceDeployment string `json:"service_deployment" binding:"required"`
	ContainerName     string `json:"container_name" binding:"required"`
	Version           string `json:"version" binding:"required"`
}

// FalcoAlert is the webhook payload Falco posts on a triggered rule. Only
// rule and the pod coordinates inside output_fields matter to the gateway;
// the rest of the alert is carried opaquely.
type FalcoAlert struct {
	Rule         string          `json:"rule"`
	OutputFields json.RawMessage `json:"output_fields"`
}

// PodCoordinates extracts the namespace and pod name Falco embeds in
// output_fields. Missing fields come back as "Unknown", matching what Falco
// emits for fields it could not resolve.
func (a FalcoAlert) PodCoordinates() (namespace, pod string) {
	namespace, pod = "Unknown", "Unknown"
	if len(a.OutputFields) == 0 {
		return namespace, pod
	}
	var fields map[string]any
	if err := json.Unmarshal(a.OutputFields, &fields); err != nil {
		return namespace, pod
	}
	if ns, ok := fields["k8s.ns.name"].(string); ok && ns != "" {
		namespace = ns
	}
	if name, ok := fields["k8s.pod.name"].(string); ok && name != "" {
		pod = name
	}
	return namespace, pod
}
