package di

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/saadousman/health-checks/pkg/k8s"
	"github.com/saadousman/health-checks/pkg/ui/timer"
)

// Dependency resolvers.

// ResolveTimer retrieves the timer dependency from the injector with
// consistent error handling.
func ResolveTimer(injector Injector) (timer.Timer, error) {
	tmr, err := do.Invoke[timer.Timer](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve timer dependency: %w", err)
	}

	return tmr, nil
}

// ResolveClientsetFactory retrieves the clientset factory dependency
// from the injector with consistent error handling.
func ResolveClientsetFactory(injector Injector) (k8s.ClientsetFactory, error) {
	factory, err := do.Invoke[k8s.ClientsetFactory](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve clientset factory dependency: %w", err)
	}

	return factory, nil
}
