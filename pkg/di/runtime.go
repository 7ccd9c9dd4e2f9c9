// Package di wires box's services together with samber/do.
//
// A Runtime holds the modules that register providers. Every Invoke builds a
// fresh injector from those modules plus per-command modules (the loaded
// configuration and the command's terminal streams), runs the handler and
// shuts the injector down again.
package di

import (
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

// Injector is the dependency container handed to handlers.
type Injector = do.Injector

// Module registers providers on an injector.
type Module func(Injector) error

// Runtime builds injectors from a fixed set of modules.
type Runtime struct {
	modules []Module
}

// New creates a Runtime from modules. Nil modules are skipped.
func New(modules ...Module) *Runtime {
	return &Runtime{modules: modules}
}

// Invoke runs handler against a fresh injector built from the runtime's
// modules followed by extraModules. A module error is returned unchanged and
// the handler is not called.
func (r *Runtime) Invoke(handler func(Injector) error, extraModules ...Module) error {
	injector := do.New()

	defer func() { _ = injector.Shutdown() }()

	for _, module := range append(append([]Module(nil), r.modules...), extraModules...) {
		if module == nil {
			continue
		}

		err := module(injector)
		if err != nil {
			return err
		}
	}

	return handler(injector)
}

// RunEWithRuntime adapts a handler to cobra's RunE.
func RunEWithRuntime(
	runtime *Runtime,
	handler func(cmd *cobra.Command, injector Injector) error,
	extraModules ...Module,
) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		return runtime.Invoke(func(injector Injector) error {
			return handler(cmd, injector)
		}, extraModules...)
	}
}
