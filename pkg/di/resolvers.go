package di

import (
	"fmt"

	"github.com/devantler-tech/box/pkg/apis/box/v1alpha1"
	"github.com/devantler-tech/box/pkg/svc/metrics"
	"github.com/devantler-tech/box/pkg/svc/orchestrator"
	"github.com/devantler-tech/box/pkg/utils/timer"
	"github.com/samber/do/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// ResolveTimer retrieves the timer dependency.
func ResolveTimer(injector Injector) (timer.Timer, error) {
	tmr, err := do.Invoke[timer.Timer](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve timer dependency: %w", err)
	}

	return tmr, nil
}

// ResolveConfig retrieves the loaded configuration.
func ResolveConfig(injector Injector) (*v1alpha1.Config, error) {
	cfg, err := do.Invoke[*v1alpha1.Config](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve config dependency: %w", err)
	}

	return cfg, nil
}

// ResolveFs retrieves the filesystem.
func ResolveFs(injector Injector) (afero.Fs, error) { //nolint:ireturn // afero.Fs is the abstraction
	fs, err := do.Invoke[afero.Fs](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve filesystem dependency: %w", err)
	}

	return fs, nil
}

// ResolveOrchestrator retrieves the cluster orchestrator and everything it depends on.
func ResolveOrchestrator(injector Injector) (*orchestrator.Orchestrator, error) {
	orch, err := do.Invoke[*orchestrator.Orchestrator](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve orchestrator dependency: %w", err)
	}

	return orch, nil
}

// ResolveMetrics retrieves the step metrics registry.
func ResolveMetrics(injector Injector) (*metrics.Registry, error) {
	registry, err := do.Invoke[*metrics.Registry](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve metrics dependency: %w", err)
	}

	return registry, nil
}

// WithTimer decorates a handler with a started timer.
func WithTimer(
	handler func(cmd *cobra.Command, injector Injector, tmr timer.Timer) error,
) func(cmd *cobra.Command, injector Injector) error {
	return func(cmd *cobra.Command, injector Injector) error {
		tmr, err := ResolveTimer(injector)
		if err != nil {
			return err
		}

		tmr.Start()

		return handler(cmd, injector, tmr)
	}
}
