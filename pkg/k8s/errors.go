package k8s

import "errors"

// ErrKubeconfigPathEmpty is returned when kubeconfig path is empty.
var ErrKubeconfigPathEmpty = errors.New("kubeconfig path is empty")

// ErrNamespaceNotFound is returned when the target namespace does not exist.
var ErrNamespaceNotFound = errors.New("namespace not found")

// ErrResourceNotFound is returned when the target workload does not exist
// in its namespace.
var ErrResourceNotFound = errors.New("resource not found")

// ErrUnknownWorkloadKind is returned for workload kinds other than
// deployment and statefulset.
var ErrUnknownWorkloadKind = errors.New("unknown workload kind")
