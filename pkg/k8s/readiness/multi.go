package readiness

import (
	"context"

	"github.com/saadousman/health-checks/pkg/k8s"
	"golang.org/x/sync/errgroup"
	"k8s.io/client-go/kubernetes"
)

// WaitForMultiple checks several workloads concurrently with one Monitor
// configuration. All checks run to completion or until the first failure
// cancels the rest; the returned summaries are positionally aligned with
// the input workloads, and the error is the first check failure.
func WaitForMultiple(
	ctx context.Context,
	clientset kubernetes.Interface,
	workloads []k8s.Workload,
	opts Options,
) ([]Summary, error) {
	summaries := make([]Summary, len(workloads))

	group, groupCtx := errgroup.WithContext(ctx)

	for i, workload := range workloads {
		group.Go(func() error {
			monitor := NewMonitor(clientset, opts)

			summary, err := monitor.Check(groupCtx, workload)
			summaries[i] = summary

			return err
		})
	}

	if err := group.Wait(); err != nil {
		return summaries, err
	}

	return summaries, nil
}
