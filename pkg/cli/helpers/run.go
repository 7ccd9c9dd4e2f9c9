package helpers

import (
	"errors"
	"fmt"

	"github.com/devantler-tech/box/pkg/apis/box/v1alpha1"
	"github.com/devantler-tech/box/pkg/di"
	"github.com/devantler-tech/box/pkg/io/configmanager"
	"github.com/devantler-tech/box/pkg/svc/orchestrator"
	"github.com/devantler-tech/box/pkg/utils/timer"
	"github.com/spf13/cobra"
)

// Handler runs a command with an injector holding its configuration.
type Handler func(cmd *cobra.Command, injector di.Injector, cfg *v1alpha1.Config) error

// RunOptions configure Run and LoadConfig.
type RunOptions struct {
	// Bindings maps the command's own flags to configuration keys.
	Bindings Bindings
	// Quiet suppresses the config notifications, for commands whose stdout is data.
	Quiet bool
	// ConfigOptions customise the config manager.
	ConfigOptions []configmanager.Option
}

// LoadConfig binds the global and command flags and loads the configuration.
func LoadConfig(cmd *cobra.Command, opts RunOptions) (*v1alpha1.Config, error) {
	manager := configmanager.NewConfigManager(cmd.OutOrStdout(), opts.ConfigOptions...)

	for _, bindings := range []Bindings{globalBindings(), opts.Bindings} {
		for name, key := range bindings {
			err := manager.BindFlag(key, cmd.Flags().Lookup(name))
			if err != nil {
				return nil, err
			}
		}
	}

	path, err := cmd.Flags().GetString(FlagConfig)
	if err == nil && path != "" {
		manager.SetConfigFile(path)
	}

	tmr := timer.New()
	tmr.Start()

	cfg, err := manager.Load(configmanager.LoadOptions{Timer: tmr, Silent: opts.Quiet})
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run loads the configuration and invokes handler on runtime. Step metrics
// are written to the configured textfile even when the handler fails.
func Run(cmd *cobra.Command, runtime *di.Runtime, opts RunOptions, handler Handler) error {
	cfg, err := LoadConfig(cmd, opts)
	if err != nil {
		return err
	}

	return runtime.Invoke(func(injector di.Injector) error {
		err := handler(cmd, injector, cfg)

		return errors.Join(err, writeMetrics(injector, cfg.MetricsFile))
	}, di.ProvideConfig(cfg), di.ProvideStreams(Streams(cmd)))
}

// WithOrchestrator adapts a handler that only needs the orchestrator.
func WithOrchestrator(
	handler func(cmd *cobra.Command, orch *orchestrator.Orchestrator, cfg *v1alpha1.Config) error,
) Handler {
	return func(cmd *cobra.Command, injector di.Injector, cfg *v1alpha1.Config) error {
		orch, err := di.ResolveOrchestrator(injector)
		if err != nil {
			return err
		}

		return handler(cmd, orch, cfg)
	}
}

func writeMetrics(injector di.Injector, path string) error {
	if path == "" {
		return nil
	}

	registry, err := di.ResolveMetrics(injector)
	if err != nil {
		return err
	}

	return registry.WriteTextfile(path)
}
