// Package k8s provides read-only Kubernetes helpers for the readiness
// gate: clientset construction from kubeconfig, workload existence
// validation, replica status and pod selector lookups, and pod
// container-status health scanning.
//
// All operations are queries. Nothing in this package mutates cluster
// state.
package k8s
