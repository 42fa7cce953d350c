package cluster

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

func newPod(name, namespace string, phase corev1.PodPhase, created time.Time) *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:              name,
			Namespace:         namespace,
			CreationTimestamp: metav1.NewTime(created),
		},
		Status: corev1.PodStatus{Phase: phase},
	}
}

func newDeployment(name, namespace, container, image string) *appsv1.Deployment {
	return &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Spec: appsv1.DeploymentSpec{
			Template: corev1.PodTemplateSpec{
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{{Name: container, Image: image}},
				},
			},
		},
	}
}

func TestListPods(t *testing.T) {
	now := time.Now()
	client := fake.NewSimpleClientset(
		newPod("api-1", "prod", corev1.PodRunning, now.Add(-90*time.Second)),
		newPod("api-2", "prod", corev1.PodPending, now.Add(-3*time.Hour)),
		newPod("other", "staging", corev1.PodRunning, now),
	)
	exec := NewExecutor(client)
	exec.now = func() time.Time { return now }

	pods, err := exec.ListPods(context.Background(), "prod")
	require.NoError(t, err)
	require.Len(t, pods, 2)

	byName := map[string]PodInfo{}
	for _, p := range pods {
		byName[p.Name] = p
	}
	assert.Equal(t, PodInfo{Name: "api-1", Status: "Running", Age: "1m"}, byName["api-1"])
	assert.Equal(t, PodInfo{Name: "api-2", Status: "Pending", Age: "3h"}, byName["api-2"])
}

func TestListPodsUnknownPhase(t *testing.T) {
	now := time.Now()
	client := fake.NewSimpleClientset(newPod("api-1", "prod", "", now))
	exec := NewExecutor(client)
	exec.now = func() time.Time { return now }

	pods, err := exec.ListPods(context.Background(), "prod")
	require.NoError(t, err)
	require.Len(t, pods, 1)
	assert.Equal(t, "Unknown", pods[0].Status)
}

func TestIsolateAndUnisolatePod(t *testing.T) {
	client := fake.NewSimpleClientset(newPod("api-1", "prod", corev1.PodRunning, time.Now()))
	exec := NewExecutor(client)
	ctx := context.Background()

	require.NoError(t, exec.IsolatePod(ctx, "prod", "api-1"))

	pod, err := client.CoreV1().Pods("prod").Get(ctx, "api-1", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "true", pod.Labels[IsolateLabel])

	require.NoError(t, exec.UnisolatePod(ctx, "prod", "api-1"))

	pod, err = client.CoreV1().Pods("prod").Get(ctx, "api-1", metav1.GetOptions{})
	require.NoError(t, err)
	_, labeled := pod.Labels[IsolateLabel]
	assert.False(t, labeled)
}

func TestIsolatePodMissing(t *testing.T) {
	exec := NewExecutor(fake.NewSimpleClientset())

	err := exec.IsolatePod(context.Background(), "prod", "ghost")
	require.Error(t, err)
}

func TestRestartDeployment(t *testing.T) {
	client := fake.NewSimpleClientset(newDeployment("api", "prod", "app", "registry.example.com/api:v1"))
	exec := NewExecutor(client)
	stamp := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	exec.now = func() time.Time { return stamp }

	require.NoError(t, exec.RestartDeployment(context.Background(), "prod", "api"))

	dep, err := client.AppsV1().Deployments("prod").Get(context.Background(), "api", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, stamp.Format(time.RFC3339), dep.Spec.Template.Annotations[restartedAtAnnotation])
}

func TestDeployService(t *testing.T) {
	client := fake.NewSimpleClientset(newDeployment("api", "prod", "app", "registry.example.com/api:v1"))
	exec := NewExecutor(client)

	require.NoError(t, exec.DeployService(context.Background(), "prod", "api", "app", "v2"))

	dep, err := client.AppsV1().Deployments("prod").Get(context.Background(), "api", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "registry.example.com/api:v2", dep.Spec.Template.Spec.Containers[0].Image)
}

func TestDeployServiceUntaggedImage(t *testing.T) {
	client := fake.NewSimpleClientset(newDeployment("api", "prod", "app", "registry.example.com:5000/api"))
	exec := NewExecutor(client)

	require.NoError(t, exec.DeployService(context.Background(), "prod", "api", "app", "v2"))

	dep, err := client.AppsV1().Deployments("prod").Get(context.Background(), "api", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "registry.example.com:5000/api:v2", dep.Spec.Template.Spec.Containers[0].Image)
}

func TestDeployServiceUnknownContainer(t *testing.T) {
	client := fake.NewSimpleClientset(newDeployment("api", "prod", "app", "api:v1"))
	exec := NewExecutor(client)

	err := exec.DeployService(context.Background(), "prod", "api", "sidecar", "v2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
