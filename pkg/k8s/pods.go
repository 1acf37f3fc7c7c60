package k8s

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/client-go/kubernetes"
)

// restartThreshold is the summed container restart count above which a
// pod counts as restarting heavily.
const restartThreshold = 3

// crashWaitingReasons are the container waiting reasons that indicate a
// container cannot start successfully, no matter how long we wait.
var crashWaitingReasons = map[string]struct{}{
	"CrashLoopBackOff":  {},
	"ImagePullBackOff":  {},
	"ErrImagePull":      {},
	"RunContainerError": {},
}

// PodHealthCounts lists the pods matching the selector and scans their
// container statuses. Pods without container statuses yet contribute to
// no count. Returns the number of pods that are not ready, the number
// waiting on a crash signature, and the number restarting heavily.
func PodHealthCounts(
	ctx context.Context,
	clientset kubernetes.Interface,
	namespace string,
	selector labels.Selector,
) (notReady, crashWaiting, highRestarts int, err error) {
	pods, err := clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{
		LabelSelector: selector.String(),
	})
	if err != nil {
		return 0, 0, 0, fmt.Errorf("list pods in %s: %w", namespace, err)
	}

	for i := range pods.Items {
		pod := &pods.Items[i]
		if len(pod.Status.ContainerStatuses) == 0 {
			continue
		}

		if !podContainersReady(pod) {
			notReady++
		}

		if podHasCrashSignature(pod) {
			crashWaiting++
		}

		if podRestartCount(pod) > restartThreshold {
			highRestarts++
		}
	}

	return notReady, crashWaiting, highRestarts, nil
}

// podContainersReady returns true when every container status reports Ready.
func podContainersReady(pod *corev1.Pod) bool {
	for _, container := range pod.Status.ContainerStatuses {
		if !container.Ready {
			return false
		}
	}

	return true
}

// podHasCrashSignature returns true when any container is waiting with a
// reason from the crash signature set (crash loop or image pull failure).
func podHasCrashSignature(pod *corev1.Pod) bool {
	for _, container := range pod.Status.ContainerStatuses {
		if container.State.Waiting == nil {
			continue
		}

		_, fatal := crashWaitingReasons[container.State.Waiting.Reason]
		if fatal {
			return true
		}
	}

	return false
}

// podRestartCount sums restart counts across the pod's containers.
func podRestartCount(pod *corev1.Pod) int {
	restarts := 0
	for _, container := range pod.Status.ContainerStatuses {
		restarts += int(container.RestartCount)
	}

	return restarts
}
