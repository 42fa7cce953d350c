// Package cluster executes the privileged Kubernetes actions the gateway
// guards: pod listing, network isolation labels, and deployment patches.
package cluster

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/kubernetes"

	"github.com/ihc-secops/officer/internal/utils/timefmt"
)

// IsolateLabel selects pods denied Ingress and Egress by the cluster's
// network policy. Isolation sets it to "true", unisolation removes it.
const IsolateLabel = "isolate"

const restartedAtAnnotation = "kubectl.kubernetes.io/restartedAt"

// PodInfo is the caller-facing summary of a pod.
type PodInfo struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Age    string `json:"age"`
}

// Actions is the cluster-side collaborator invoked once a request has been
// authorized. Implementations do not retry; every error is terminal for the
// current request and passes through to the caller untouched.
type Actions interface {
	ListPods(ctx context.Context, namespace string) ([]PodInfo, error)
	IsolatePod(ctx context.Context, namespace, pod string) error
	UnisolatePod(ctx context.Context, namespace, pod string) error
	RestartDeployment(ctx context.Context, namespace, deployment string) error
	DeployService(ctx context.Context, namespace, deployment, container, version string) error
}

// Executor implements Actions over a typed clientset.
type Executor struct {
	client kubernetes.Interface
	now    func() time.Time
}

// NewExecutor wraps a clientset.
func NewExecutor(client kubernetes.Interface) *Executor {
	return &Executor{client: client, now: time.Now}
}

// ListPods returns name, phase and age for every pod in the namespace.
func (e *Executor) ListPods(ctx context.Context, namespace string) ([]PodInfo, error) {
	podList, err := e.client.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list pods in %q: %w", namespace, err)
	}

	now := e.now()
	infos := make([]PodInfo, 0, len(podList.Items))
	for _, p := range podList.Items {
		status := "Unknown"
		if p.Status.Phase != "" {
			status = string(p.Status.Phase)
		}
		age := timefmt.Age(0)
		if !p.CreationTimestamp.IsZero() {
			age = timefmt.Age(now.Sub(p.CreationTimestamp.Time))
		}
		infos = append(infos, PodInfo{
			Name:   p.Name,
			Status: status,
			Age:    age,
		})
	}
	return infos, nil
}

// IsolatePod labels the pod so the deny-all network policy selects it.
func (e *Executor) IsolatePod(ctx context.Context, namespace, pod string) error {
	patch := map[string]any{
		"metadata": map[string]any{
			"labels": map[string]any{IsolateLabel: "true"},
		},
	}
	return e.patchPod(ctx, namespace, pod, patch)
}

// UnisolatePod removes the isolation label, restoring network connectivity.
func (e *Executor) UnisolatePod(ctx context.Context, namespace, pod string) error {
	patch := map[string]any{
		"metadata": map[string]any{
			"labels": map[string]any{IsolateLabel: nil},
		},
	}
	return e.patchPod(ctx, namespace, pod, patch)
}

func (e *Executor) patchPod(ctx context.Context, namespace, pod string, patch map[string]any) error {
	data, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("marshal pod patch: %w", err)
	}
	_, err = e.client.CoreV1().Pods(namespace).Patch(ctx, pod, types.MergePatchType, data, metav1.PatchOptions{})
	if err != nil {
		return fmt.Errorf("patch pod %s/%s: %w", namespace, pod, err)
	}
	return nil
}

// RestartDeployment stamps the pod template so the controller rolls new pods,
// the same mechanism kubectl rollout restart uses.
func (e *Executor) RestartDeployment(ctx context.Context, namespace, deployment string) error {
	patch := map[string]any{
		"spec": map[string]any{
			"template": map[string]any{
				"metadata": map[string]any{
					"annotations": map[string]any{
						restartedAtAnnotation: e.now().Format(time.RFC3339),
					},
				},
			},
		},
	}
	data, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("marshal deployment patch: %w", err)
	}
	_, err = e.client.AppsV1().Deployments(namespace).Patch(ctx, deployment, types.MergePatchType, data, metav1.PatchOptions{})
	if err != nil {
		return fmt.Errorf("patch deployment %s/%s: %w", namespace, deployment, err)
	}
	return nil
}

// DeployService retags the named container's image to the requested version
// and patches the deployment. The repository part of the image is preserved.
func (e *Executor) DeployService(ctx context.Context, namespace, deployment, container, version string) error {
	current, err := e.client.AppsV1().Deployments(namespace).Get(ctx, deployment, metav1.GetOptions{})
	if err != nil {
		return fmt.Errorf("get deployment %s/%s: %w", namespace, deployment, err)
	}

	var image string
	for _, c := range current.Spec.Template.Spec.Containers {
		if c.Name == container {
			image = c.Image
			break
		}
	}
	if image == "" {
		return fmt.Errorf("container %q not found in deployment %s/%s", container, namespace, deployment)
	}

	repo := image
	if idx := strings.LastIndex(image, ":"); idx > strings.LastIndex(image, "/") {
		repo = image[:idx]
	}
	patch := map[string]any{
		"spec": map[string]any{
			"template": map[string]any{
				"spec": map[string]any{
					"containers": []map[string]any{
						{
							"name":  container,
							"image": fmt.Sprintf("%s:%s", repo, version),
						},
					},
				},
			},
		},
	}
	data, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("marshal deployment patch: %w", err)
	}
	_, err = e.client.AppsV1().Deployments(namespace).Patch(ctx, deployment, types.MergePatchType, data, metav1.PatchOptions{})
	if err != nil {
		return fmt.Errorf("patch deployment %s/%s: %w", namespace, deployment, err)
	}
	return nil
}
