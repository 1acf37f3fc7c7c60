package k8s

import (
	"context"
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/client-go/kubernetes"
)

// WorkloadKind identifies the kind of a replicated workload.
type WorkloadKind string

// Supported workload kinds.
const (
	KindDeployment  WorkloadKind = "deployment"
	KindStatefulSet WorkloadKind = "statefulset"
)

// ParseWorkloadKind validates a kind argument as given on the command line.
func ParseWorkloadKind(kind string) (WorkloadKind, error) {
	switch WorkloadKind(kind) {
	case KindDeployment:
		return KindDeployment, nil
	case KindStatefulSet:
		return KindStatefulSet, nil
	default:
		return "", fmt.Errorf("%w: %q (expected %q or %q)",
			ErrUnknownWorkloadKind, kind, KindDeployment, KindStatefulSet)
	}
}

// Workload identifies the target of a readiness check. It is immutable
// for the duration of a check.
type Workload struct {
	Kind      WorkloadKind `json:"kind"`
	Name      string       `json:"name"`
	Namespace string       `json:"namespace"`
}

// String returns the workload in kind name/namespace display form.
func (w Workload) String() string {
	return fmt.Sprintf("%s %s/%s", w.Kind, w.Namespace, w.Name)
}

// WorkloadReplicas returns the desired and ready replica counts from the
// workload's own status fields. Absent status fields read as zero, which
// is a state for the caller's decision policy to judge, not an error.
func WorkloadReplicas(
	ctx context.Context,
	clientset kubernetes.Interface,
	workload Workload,
) (desired, ready int32, err error) {
	switch workload.Kind {
	case KindDeployment:
		deployment, getErr := clientset.AppsV1().
			Deployments(workload.Namespace).
			Get(ctx, workload.Name, metav1.GetOptions{})
		if getErr != nil {
			return 0, 0, fmt.Errorf("get deployment %s/%s: %w",
				workload.Namespace, workload.Name, getErr)
		}

		return deployment.Status.Replicas, deployment.Status.ReadyReplicas, nil
	case KindStatefulSet:
		statefulSet, getErr := clientset.AppsV1().
			StatefulSets(workload.Namespace).
			Get(ctx, workload.Name, metav1.GetOptions{})
		if getErr != nil {
			return 0, 0, fmt.Errorf("get statefulset %s/%s: %w",
				workload.Namespace, workload.Name, getErr)
		}

		return statefulSet.Status.Replicas, statefulSet.Status.ReadyReplicas, nil
	default:
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownWorkloadKind, workload.Kind)
	}
}

// WorkloadSelector derives the pod label selector from the workload's
// declared spec selector. The selector is re-derived on every call so a
// changed workload spec is picked up by the next poll.
func WorkloadSelector(
	ctx context.Context,
	clientset kubernetes.Interface,
	workload Workload,
) (labels.Selector, error) {
	var labelSelector *metav1.LabelSelector

	switch workload.Kind {
	case KindDeployment:
		deployment, err := clientset.AppsV1().
			Deployments(workload.Namespace).
			Get(ctx, workload.Name, metav1.GetOptions{})
		if err != nil {
			return nil, fmt.Errorf("get deployment %s/%s: %w",
				workload.Namespace, workload.Name, err)
		}

		labelSelector = deployment.Spec.Selector
	case KindStatefulSet:
		statefulSet, err := clientset.AppsV1().
			StatefulSets(workload.Namespace).
			Get(ctx, workload.Name, metav1.GetOptions{})
		if err != nil {
			return nil, fmt.Errorf("get statefulset %s/%s: %w",
				workload.Namespace, workload.Name, err)
		}

		labelSelector = statefulSet.Spec.Selector
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownWorkloadKind, workload.Kind)
	}

	selector, err := metav1.LabelSelectorAsSelector(labelSelector)
	if err != nil {
		return nil, fmt.Errorf("convert selector for %s: %w", workload, err)
	}

	return selector, nil
}
