package k8s_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/saadousman/health-checks/pkg/k8s"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"
)

var webSelector = labels.Set{"app": "web"}.AsSelector()

func newPod(name string, statuses ...corev1.ContainerStatus) *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: "prod",
			Labels:    map[string]string{"app": "web"},
		},
		Status: corev1.PodStatus{ContainerStatuses: statuses},
	}
}

func readyStatus() corev1.ContainerStatus {
	return corev1.ContainerStatus{Name: "main", Ready: true}
}

func waitingStatus(reason string) corev1.ContainerStatus {
	return corev1.ContainerStatus{
		Name:  "main",
		Ready: false,
		State: corev1.ContainerState{
			Waiting: &corev1.ContainerStateWaiting{Reason: reason},
		},
	}
}

func TestPodHealthCounts_AllReady(t *testing.T) {
	t.Parallel()

	clientset := fake.NewClientset(
		newPod("web-1", readyStatus()),
		newPod("web-2", readyStatus(), readyStatus()),
	)

	notReady, crashWaiting, highRestarts, err := k8s.PodHealthCounts(
		context.Background(), clientset, "prod", webSelector)

	require.NoError(t, err)
	assert.Equal(t, 0, notReady)
	assert.Equal(t, 0, crashWaiting)
	assert.Equal(t, 0, highRestarts)
}

// A pod that has not reported container statuses yet contributes nothing.
func TestPodHealthCounts_NoContainerStatuses(t *testing.T) {
	t.Parallel()

	clientset := fake.NewClientset(newPod("web-1"))

	notReady, crashWaiting, highRestarts, err := k8s.PodHealthCounts(
		context.Background(), clientset, "prod", webSelector)

	require.NoError(t, err)
	assert.Equal(t, 0, notReady)
	assert.Equal(t, 0, crashWaiting)
	assert.Equal(t, 0, highRestarts)
}

func TestPodHealthCounts_NotReadyContainer(t *testing.T) {
	t.Parallel()

	clientset := fake.NewClientset(
		newPod("web-1", readyStatus()),
		newPod("web-2", readyStatus(), corev1.ContainerStatus{Name: "sidecar", Ready: false}),
	)

	notReady, crashWaiting, highRestarts, err := k8s.PodHealthCounts(
		context.Background(), clientset, "prod", webSelector)

	require.NoError(t, err)
	assert.Equal(t, 1, notReady)
	assert.Equal(t, 0, crashWaiting)
	assert.Equal(t, 0, highRestarts)
}

func TestPodHealthCounts_CrashSignatures(t *testing.T) {
	t.Parallel()

	for _, reason := range []string{
		"CrashLoopBackOff",
		"ImagePullBackOff",
		"ErrImagePull",
		"RunContainerError",
	} {
		t.Run(reason, func(t *testing.T) {
			t.Parallel()

			clientset := fake.NewClientset(newPod("web-1", waitingStatus(reason)))

			notReady, crashWaiting, _, err := k8s.PodHealthCounts(
				context.Background(), clientset, "prod", webSelector)

			require.NoError(t, err)
			assert.Equal(t, 1, crashWaiting)
			assert.Equal(t, 1, notReady)
		})
	}
}

// ContainerCreating is a normal startup state, not a crash signature.
func TestPodHealthCounts_BenignWaitingReason(t *testing.T) {
	t.Parallel()

	clientset := fake.NewClientset(newPod("web-1", waitingStatus("ContainerCreating")))

	notReady, crashWaiting, highRestarts, err := k8s.PodHealthCounts(
		context.Background(), clientset, "prod", webSelector)

	require.NoError(t, err)
	assert.Equal(t, 1, notReady)
	assert.Equal(t, 0, crashWaiting)
	assert.Equal(t, 0, highRestarts)
}

func TestPodHealthCounts_RestartThreshold(t *testing.T) {
	t.Parallel()

	tests := []struct {
		restarts []int32
		expected int
	}{
		{restarts: []int32{3}, expected: 0},
		{restarts: []int32{4}, expected: 1},
		{restarts: []int32{2, 2}, expected: 1},
		{restarts: []int32{1, 2}, expected: 0},
	}

	for _, testCase := range tests {
		t.Run(fmt.Sprintf("restarts=%v", testCase.restarts), func(t *testing.T) {
			t.Parallel()

			statuses := make([]corev1.ContainerStatus, 0, len(testCase.restarts))
			for i, count := range testCase.restarts {
				statuses = append(statuses, corev1.ContainerStatus{
					Name:         fmt.Sprintf("c%d", i),
					Ready:        true,
					RestartCount: count,
				})
			}

			clientset := fake.NewClientset(newPod("web-1", statuses...))

			_, _, highRestarts, err := k8s.PodHealthCounts(
				context.Background(), clientset, "prod", webSelector)

			require.NoError(t, err)
			assert.Equal(t, testCase.expected, highRestarts)
		})
	}
}

// Pods outside the selector are never counted.
func TestPodHealthCounts_SelectorScoping(t *testing.T) {
	t.Parallel()

	other := &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "db-1",
			Namespace: "prod",
			Labels:    map[string]string{"app": "db"},
		},
		Status: corev1.PodStatus{
			ContainerStatuses: []corev1.ContainerStatus{waitingStatus("CrashLoopBackOff")},
		},
	}

	clientset := fake.NewClientset([]runtime.Object{newPod("web-1", readyStatus()), other}...)

	notReady, crashWaiting, _, err := k8s.PodHealthCounts(
		context.Background(), clientset, "prod", webSelector)

	require.NoError(t, err)
	assert.Equal(t, 0, notReady)
	assert.Equal(t, 0, crashWaiting)
}
