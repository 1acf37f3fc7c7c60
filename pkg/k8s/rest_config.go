package k8s

import (
	"fmt"
	"os"
	"path/filepath"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// ClientsetFactory constructs a Kubernetes clientset from a kubeconfig
// path and an optional context name. Commands resolve the factory from
// the runtime container; tests register a factory returning a fake.
type ClientsetFactory func(kubeconfig, kubecontext string) (kubernetes.Interface, error)

// DefaultKubeconfigPath returns the default kubeconfig path for the current user.
// The path is constructed as ~/.kube/config using the user's home directory.
func DefaultKubeconfigPath() string {
	homeDir, _ := os.UserHomeDir()

	return filepath.Join(homeDir, ".kube", "config")
}

// BuildRESTConfig builds a Kubernetes REST config from an explicit
// kubeconfig path and optional context.
//
// The kubeconfig parameter must be a non-empty path to a valid kubeconfig
// file. The context parameter is optional and specifies which context to
// use; if empty, the kubeconfig's current context is used.
//
// Returns ErrKubeconfigPathEmpty if kubeconfig path is empty.
// Returns an error if the kubeconfig cannot be loaded or parsed.
func BuildRESTConfig(kubeconfig, kubecontext string) (*rest.Config, error) {
	if kubeconfig == "" {
		return nil, ErrKubeconfigPathEmpty
	}

	loadingRules := &clientcmd.ClientConfigLoadingRules{ExplicitPath: kubeconfig}

	return loadRESTConfig(loadingRules, kubecontext)
}

// GetRESTConfig loads a REST config using the standard client-go loading
// rules (KUBECONFIG env var, default kubeconfig path) with an optional
// context override. Use this when no explicit kubeconfig path was given.
func GetRESTConfig(kubecontext string) (*rest.Config, error) {
	return loadRESTConfig(clientcmd.NewDefaultClientConfigLoadingRules(), kubecontext)
}

// NewClientset creates a Kubernetes clientset from a kubeconfig path and
// context. An empty kubeconfig path falls back to the standard client-go
// loading rules.
func NewClientset(kubeconfig, kubecontext string) (kubernetes.Interface, error) {
	var (
		restConfig *rest.Config
		err        error
	)

	if kubeconfig == "" {
		restConfig, err = GetRESTConfig(kubecontext)
	} else {
		restConfig, err = BuildRESTConfig(kubeconfig, kubecontext)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to build rest config: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	return clientset, nil
}

func loadRESTConfig(
	loadingRules *clientcmd.ClientConfigLoadingRules,
	kubecontext string,
) (*rest.Config, error) {
	overrides := &clientcmd.ConfigOverrides{}
	if kubecontext != "" {
		overrides.CurrentContext = kubecontext
	}

	clientConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, overrides)

	restConfig, err := clientConfig.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
	}

	return restConfig, nil
}
