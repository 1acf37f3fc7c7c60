package k8s

import (
	"context"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// ValidateWorkload confirms the target namespace and workload exist
// before any polling starts. A missing target is reported once, never
// retried across a timeout window.
//
// Returns ErrNamespaceNotFound or ErrResourceNotFound (wrapped with the
// target's identity) when either is absent. Other query failures are
// returned as-is; validation is the one place a query error is not
// coerced to an empty reading.
func ValidateWorkload(
	ctx context.Context,
	clientset kubernetes.Interface,
	workload Workload,
) error {
	_, err := clientset.CoreV1().Namespaces().Get(ctx, workload.Namespace, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return fmt.Errorf("%w: %q", ErrNamespaceNotFound, workload.Namespace)
		}

		return fmt.Errorf("get namespace %q: %w", workload.Namespace, err)
	}

	switch workload.Kind {
	case KindDeployment:
		_, err = clientset.AppsV1().
			Deployments(workload.Namespace).
			Get(ctx, workload.Name, metav1.GetOptions{})
	case KindStatefulSet:
		_, err = clientset.AppsV1().
			StatefulSets(workload.Namespace).
			Get(ctx, workload.Name, metav1.GetOptions{})
	default:
		return fmt.Errorf("%w: %q", ErrUnknownWorkloadKind, workload.Kind)
	}

	if err != nil {
		if apierrors.IsNotFound(err) {
			return fmt.Errorf("%w: %s", ErrResourceNotFound, workload)
		}

		return fmt.Errorf("get %s: %w", workload, err)
	}

	return nil
}
