package readiness

import "errors"

// ErrTimeoutExceeded is returned when a workload does not become ready
// within the configured timeout.
var ErrTimeoutExceeded = errors.New("timeout exceeded")

// ErrZeroDesiredReplicas is returned when the workload's desired replica
// count resolves to zero. A workload scaled to zero can never become
// ready, so the check fails immediately instead of consuming the timeout.
var ErrZeroDesiredReplicas = errors.New("workload has zero desired replicas")

// ErrPodFailureDetected is returned when a pod managed by the workload
// exhibits a crash signature (crash loop, image pull failure) or has
// restarted excessively.
var ErrPodFailureDetected = errors.New("pod failure detected")
