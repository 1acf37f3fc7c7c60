package di

import (
	"github.com/samber/do/v2"

	"github.com/saadousman/health-checks/pkg/k8s"
	"github.com/saadousman/health-checks/pkg/ui/timer"
)

// Dependency providers.

// provideTimer registers the timer dependency with the injector.
func provideTimer(i Injector) error {
	do.Provide(i, func(Injector) (timer.Timer, error) {
		return timer.New(), nil
	})

	return nil
}

// provideClientsetFactory registers the Kubernetes clientset factory.
// The default factory builds a clientset from a kubeconfig path and
// context using standard client-go loading rules.
func provideClientsetFactory(i Injector) error {
	do.Provide(i, func(Injector) (k8s.ClientsetFactory, error) {
		return k8s.ClientsetFactory(k8s.NewClientset), nil
	})

	return nil
}
