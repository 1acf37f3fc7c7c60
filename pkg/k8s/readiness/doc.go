// Package readiness decides whether a replicated workload has reached a
// healthy, fully-ready state within a bounded time window.
//
// A Monitor validates that the target namespace and workload exist, then
// polls the cluster: each tick it reads the workload's replica counts,
// re-derives the pod label selector, scans the matching pods' container
// statuses, and applies a pure decision policy. The policy distinguishes
// workloads that are still starting (keep waiting) from those that can
// never become ready (scaled to zero, crash loops, image pull failures,
// excessive restarts), so deployment automation fails fast instead of
// burning the whole timeout.
//
// Key features:
//   - Single-workload polling (Monitor.Check)
//   - Pure decision policy over one tick's counts (Decide)
//   - Parallel multi-workload gating (WaitForMultiple)
//   - Per-tick progress lines and optional structured debug logging
package readiness
