package readiness

// ReplicaStatus holds the desired and ready replica counts read from a
// workload's status fields on one poll tick.
type ReplicaStatus struct {
	Desired int32 `json:"desired"`
	Ready   int32 `json:"ready"`
}

// PodHealth holds the per-tick pod counts derived from scanning the
// container statuses of every pod matching the workload's selector.
type PodHealth struct {
	// NotReady is the number of pods with at least one container not ready.
	NotReady int `json:"notReady"`
	// CrashWaiting is the number of pods waiting on a crash signature
	// (CrashLoopBackOff, ImagePullBackOff, ErrImagePull, RunContainerError).
	CrashWaiting int `json:"crashWaiting"`
	// HighRestarts is the number of pods whose summed container restart
	// count exceeds the restart threshold.
	HighRestarts int `json:"highRestarts"`
}

// Outcome is the decision for a single poll tick.
type Outcome int

const (
	// OutcomePending means the workload is still starting; keep polling.
	OutcomePending Outcome = iota
	// OutcomeReady means every desired replica is ready and no pod is unhealthy.
	OutcomeReady
	// OutcomeFatal means the workload can never become ready; stop polling.
	OutcomeFatal
)

// Decide maps one tick's counts to an outcome. For OutcomeFatal the
// returned error is the sentinel reason (ErrZeroDesiredReplicas or
// ErrPodFailureDetected); otherwise it is nil.
//
// The evaluation order is deliberate and must not change: the
// zero-desired degenerate case first, then fatal pod signatures, then
// success. Checking success before failures could declare a workload
// ready on a tick where a replaced pod is simultaneously crash-looping.
func Decide(replicas ReplicaStatus, pods PodHealth) (Outcome, error) {
	switch {
	case replicas.Desired == 0:
		return OutcomeFatal, ErrZeroDesiredReplicas
	case pods.CrashWaiting > 0 || pods.HighRestarts > 0:
		return OutcomeFatal, ErrPodFailureDetected
	case replicas.Ready == replicas.Desired && pods.NotReady == 0:
		return OutcomeReady, nil
	default:
		return OutcomePending, nil
	}
}
