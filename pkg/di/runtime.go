// Package di wires shared dependencies for command handlers through a
// samber/do injector. Commands resolve their collaborators from the
// runtime container so tests can swap in fakes by registering
// alternative modules.
package di

import (
	"github.com/samber/do/v2"
)

// Injector is the dependency injector handed to modules and handlers.
type Injector = do.Injector

// Module registers one or more dependencies with the injector.
type Module func(Injector) error

// Runtime owns the injector and the modules that populate it. Modules
// run once, on the first Invoke.
type Runtime struct {
	injector do.Injector
	modules  []Module
}

// New constructs a runtime container with the given modules.
func New(modules ...Module) *Runtime {
	return &Runtime{modules: modules}
}

// NewRuntime constructs the shared runtime container used by the root
// command and tests. It registers default implementations for the timer
// and the clientset factory.
func NewRuntime() *Runtime {
	return New(
		provideTimer,
		provideClientsetFactory,
	)
}

// Invoke runs the handler with the populated injector, initializing it
// on first use. Module errors are returned before the handler runs.
func (r *Runtime) Invoke(handler func(Injector) error) error {
	if r.injector == nil {
		injector := do.New()

		for _, module := range r.modules {
			err := module(injector)
			if err != nil {
				return err
			}
		}

		r.injector = injector
	}

	return handler(r.injector)
}
