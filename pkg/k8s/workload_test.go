package k8s_test

import (
	"context"
	"testing"

	"github.com/saadousman/health-checks/pkg/k8s"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

func TestParseWorkloadKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected k8s.WorkloadKind
		wantErr  bool
	}{
		{name: "deployment", input: "deployment", expected: k8s.KindDeployment},
		{name: "statefulset", input: "statefulset", expected: k8s.KindStatefulSet},
		{name: "daemonset rejected", input: "daemonset", wantErr: true},
		{name: "capitalized rejected", input: "Deployment", wantErr: true},
		{name: "empty rejected", input: "", wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			kind, err := k8s.ParseWorkloadKind(testCase.input)

			if testCase.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, k8s.ErrUnknownWorkloadKind)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, testCase.expected, kind)
		})
	}
}

func TestWorkloadString(t *testing.T) {
	t.Parallel()

	workload := k8s.Workload{Kind: k8s.KindDeployment, Name: "web", Namespace: "prod"}

	assert.Equal(t, "deployment prod/web", workload.String())
}

func TestWorkloadReplicas_Deployment(t *testing.T) {
	t.Parallel()

	clientset := fake.NewClientset(&appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Name: "web", Namespace: "prod"},
		Status: appsv1.DeploymentStatus{
			Replicas:      3,
			ReadyReplicas: 2,
		},
	})

	desired, ready, err := k8s.WorkloadReplicas(context.Background(), clientset,
		k8s.Workload{Kind: k8s.KindDeployment, Name: "web", Namespace: "prod"})

	require.NoError(t, err)
	assert.Equal(t, int32(3), desired)
	assert.Equal(t, int32(2), ready)
}

func TestWorkloadReplicas_StatefulSet(t *testing.T) {
	t.Parallel()

	clientset := fake.NewClientset(&appsv1.StatefulSet{
		ObjectMeta: metav1.ObjectMeta{Name: "db", Namespace: "prod"},
		Status: appsv1.StatefulSetStatus{
			Replicas:      2,
			ReadyReplicas: 2,
		},
	})

	desired, ready, err := k8s.WorkloadReplicas(context.Background(), clientset,
		k8s.Workload{Kind: k8s.KindStatefulSet, Name: "db", Namespace: "prod"})

	require.NoError(t, err)
	assert.Equal(t, int32(2), desired)
	assert.Equal(t, int32(2), ready)
}

// Status fields that were never populated read as zero, not as an error.
func TestWorkloadReplicas_EmptyStatus(t *testing.T) {
	t.Parallel()

	clientset := fake.NewClientset(&appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Name: "web", Namespace: "prod"},
	})

	desired, ready, err := k8s.WorkloadReplicas(context.Background(), clientset,
		k8s.Workload{Kind: k8s.KindDeployment, Name: "web", Namespace: "prod"})

	require.NoError(t, err)
	assert.Equal(t, int32(0), desired)
	assert.Equal(t, int32(0), ready)
}

func TestWorkloadReplicas_Missing(t *testing.T) {
	t.Parallel()

	clientset := fake.NewClientset()

	_, _, err := k8s.WorkloadReplicas(context.Background(), clientset,
		k8s.Workload{Kind: k8s.KindDeployment, Name: "gone", Namespace: "prod"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "get deployment prod/gone")
}

func TestWorkloadReplicas_UnknownKind(t *testing.T) {
	t.Parallel()

	clientset := fake.NewClientset()

	_, _, err := k8s.WorkloadReplicas(context.Background(), clientset,
		k8s.Workload{Kind: "daemonset", Name: "x", Namespace: "prod"})

	require.Error(t, err)
	assert.ErrorIs(t, err, k8s.ErrUnknownWorkloadKind)
}

func TestWorkloadSelector_Deployment(t *testing.T) {
	t.Parallel()

	clientset := fake.NewClientset(&appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Name: "web", Namespace: "prod"},
		Spec: appsv1.DeploymentSpec{
			Selector: &metav1.LabelSelector{
				MatchLabels: map[string]string{"app": "web", "tier": "frontend"},
			},
		},
	})

	selector, err := k8s.WorkloadSelector(context.Background(), clientset,
		k8s.Workload{Kind: k8s.KindDeployment, Name: "web", Namespace: "prod"})

	require.NoError(t, err)
	assert.Equal(t, "app=web,tier=frontend", selector.String())
}

func TestWorkloadSelector_StatefulSet(t *testing.T) {
	t.Parallel()

	clientset := fake.NewClientset(&appsv1.StatefulSet{
		ObjectMeta: metav1.ObjectMeta{Name: "db", Namespace: "prod"},
		Spec: appsv1.StatefulSetSpec{
			Selector: &metav1.LabelSelector{
				MatchLabels: map[string]string{"app": "db"},
			},
		},
	})

	selector, err := k8s.WorkloadSelector(context.Background(), clientset,
		k8s.Workload{Kind: k8s.KindStatefulSet, Name: "db", Namespace: "prod"})

	require.NoError(t, err)
	assert.Equal(t, "app=db", selector.String())
}

func TestWorkloadSelector_Missing(t *testing.T) {
	t.Parallel()

	clientset := fake.NewClientset()

	_, err := k8s.WorkloadSelector(context.Background(), clientset,
		k8s.Workload{Kind: k8s.KindStatefulSet, Name: "gone", Namespace: "prod"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "get statefulset prod/gone")
}
