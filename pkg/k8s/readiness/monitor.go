package readiness

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/saadousman/health-checks/pkg/k8s"
	"github.com/saadousman/health-checks/pkg/ui/notify"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"k8s.io/client-go/kubernetes"
)

// Default polling parameters.
const (
	// DefaultTimeout is the overall readiness deadline.
	DefaultTimeout = 500 * time.Second
	// DefaultInterval is the delay between poll ticks.
	DefaultInterval = 5 * time.Second
	// DefaultSettleDelay is the one-time pause before the first tick, so
	// freshly-applied workloads have a moment to create their pods.
	DefaultSettleDelay = 10 * time.Second
)

// Options configures a Monitor. Zero values for Timeout and Interval
// fall back to the package defaults; SettleDelay is used as given, so a
// zero settle delay skips the initial pause entirely.
type Options struct {
	Timeout     time.Duration
	Interval    time.Duration
	SettleDelay time.Duration
	// Writer receives per-tick progress lines. Nil discards them.
	Writer io.Writer
	// Logger receives structured debug records for each tick and for
	// tolerated mid-poll query errors. Nil disables debug logging.
	Logger logrus.FieldLogger
}

// Monitor polls a single workload until it is ready, fatally broken, or
// the timeout elapses.
type Monitor struct {
	clientset kubernetes.Interface
	opts      Options
}

// NewMonitor creates a Monitor over the given clientset.
func NewMonitor(clientset kubernetes.Interface, opts Options) *Monitor {
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}

	if opts.Interval == 0 {
		opts.Interval = DefaultInterval
	}

	if opts.Writer == nil {
		opts.Writer = io.Discard
	}

	return &Monitor{clientset: clientset, opts: opts}
}

// Summary reports the final state observed by a check. On failure it
// carries the last tick's counts, which is what a deployment log needs
// to explain the verdict.
type Summary struct {
	Workload k8s.Workload  `json:"workload"`
	Replicas ReplicaStatus `json:"replicas"`
	Pods     PodHealth     `json:"pods"`
	Ticks    int           `json:"ticks"`
	Elapsed  time.Duration `json:"elapsed"`
}

// Check validates that the workload's namespace and resource exist, then
// polls until the workload is ready, a fatal condition appears, the
// timeout elapses, or the context is canceled.
//
// Validation failures return before any polling happens: a missing
// namespace or resource is an operator mistake, not something waiting
// will fix. The timeout is measured against the wall clock and evaluated
// at the top of every iteration, so Check never gives up early but may
// run up to one interval past the deadline to finish an in-flight tick.
func (m *Monitor) Check(ctx context.Context, workload k8s.Workload) (Summary, error) {
	summary := Summary{Workload: workload}

	if err := k8s.ValidateWorkload(ctx, m.clientset, workload); err != nil {
		return summary, err
	}

	start := time.Now()

	if err := sleepCtx(ctx, m.opts.SettleDelay); err != nil {
		summary.Elapsed = time.Since(start)

		return summary, err
	}

	for {
		if time.Since(start) >= m.opts.Timeout {
			summary.Elapsed = time.Since(start)

			return summary, fmt.Errorf("%w after %s waiting for %s",
				ErrTimeoutExceeded, m.opts.Timeout, workload)
		}

		replicas, pods, err := m.observe(ctx, workload)
		if err != nil {
			summary.Elapsed = time.Since(start)

			return summary, err
		}

		summary.Replicas = replicas
		summary.Pods = pods
		summary.Ticks++

		outcome, reason := Decide(replicas, pods)

		m.logTick(workload, summary, outcome)

		switch outcome {
		case OutcomeReady:
			summary.Elapsed = time.Since(start)

			return summary, nil
		case OutcomeFatal:
			summary.Elapsed = time.Since(start)

			return summary, fmt.Errorf("%s: %w", workload, reason)
		case OutcomePending:
			notify.Activityf(m.opts.Writer,
				"waiting for %s: %d/%d ready (%d not ready, %d crashing, %d restarting)",
				workload.Name, replicas.Ready, replicas.Desired,
				pods.NotReady, pods.CrashWaiting, pods.HighRestarts)
		}

		if err := sleepCtx(ctx, m.opts.Interval); err != nil {
			summary.Elapsed = time.Since(start)

			return summary, err
		}
	}
}

// observe gathers one tick's readings. The replica counts and the pod
// scan are independent queries, so they run concurrently.
//
// Mid-poll query errors are tolerated, not fatal: a transient API hiccup
// should cost one uninformative tick, not the whole check. Failed
// readings coerce to zero counts, which the decision policy treats as
// "still pending" unless the workload reports zero desired replicas.
func (m *Monitor) observe(
	ctx context.Context,
	workload k8s.Workload,
) (ReplicaStatus, PodHealth, error) {
	var (
		replicas ReplicaStatus
		pods     PodHealth
	)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		desired, ready, err := k8s.WorkloadReplicas(groupCtx, m.clientset, workload)
		if err != nil {
			m.logQueryError(workload, "replicas", err)

			return nil
		}

		replicas = ReplicaStatus{Desired: desired, Ready: ready}

		return nil
	})

	group.Go(func() error {
		selector, err := k8s.WorkloadSelector(groupCtx, m.clientset, workload)
		if err != nil {
			m.logQueryError(workload, "selector", err)

			return nil
		}

		notReady, crashWaiting, highRestarts, err := k8s.PodHealthCounts(
			groupCtx, m.clientset, workload.Namespace, selector)
		if err != nil {
			m.logQueryError(workload, "pods", err)

			return nil
		}

		pods = PodHealth{
			NotReady:     notReady,
			CrashWaiting: crashWaiting,
			HighRestarts: highRestarts,
		}

		return nil
	})

	_ = group.Wait()

	if err := ctx.Err(); err != nil {
		return replicas, pods, fmt.Errorf("readiness check interrupted: %w", err)
	}

	return replicas, pods, nil
}

func (m *Monitor) logTick(workload k8s.Workload, summary Summary, outcome Outcome) {
	if m.opts.Logger == nil {
		return
	}

	m.opts.Logger.WithFields(logrus.Fields{
		"workload": workload.String(),
		"tick":     summary.Ticks,
		"desired":  summary.Replicas.Desired,
		"ready":    summary.Replicas.Ready,
		"notReady": summary.Pods.NotReady,
		"crash":    summary.Pods.CrashWaiting,
		"restarts": summary.Pods.HighRestarts,
		"outcome":  outcome,
	}).Debug("readiness tick")
}

func (m *Monitor) logQueryError(workload k8s.Workload, query string, err error) {
	if m.opts.Logger == nil {
		return
	}

	m.opts.Logger.WithFields(logrus.Fields{
		"workload": workload.String(),
		"query":    query,
	}).WithError(err).Debug("tolerating mid-poll query error")
}

// sleepCtx sleeps for the given duration or until the context is done,
// whichever comes first.
func sleepCtx(ctx context.Context, duration time.Duration) error {
	if duration <= 0 {
		return ctx.Err()
	}

	sleepTimer := time.NewTimer(duration)
	defer sleepTimer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-sleepTimer.C:
		return nil
	}
}
