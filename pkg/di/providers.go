package di

import (
	"io"

	"github.com/devantler-tech/box/pkg/apis/box/v1alpha1"
	"github.com/devantler-tech/box/pkg/cli/parallel"
	"github.com/devantler-tech/box/pkg/client/docker"
	"github.com/devantler-tech/box/pkg/svc/compose"
	"github.com/devantler-tech/box/pkg/svc/hostenv"
	"github.com/devantler-tech/box/pkg/svc/image"
	"github.com/devantler-tech/box/pkg/svc/metrics"
	"github.com/devantler-tech/box/pkg/svc/orchestrator"
	"github.com/devantler-tech/box/pkg/svc/storage"
	"github.com/devantler-tech/box/pkg/svc/transport"
	"github.com/devantler-tech/box/pkg/utils/timer"
	"github.com/samber/do/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Streams are the terminal streams of the running command.
type Streams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

// NewRuntime constructs the runtime used by the root command. Handlers must
// add ProvideConfig and ProvideStreams when they invoke it.
func NewRuntime() *Runtime {
	return New(
		provideTimer,
		provideFs,
		provideLogger,
		provideDockerClient,
		provideTransports,
		provideMetrics,
		provideServices,
		provideOrchestrator,
	)
}

// ProvideConfig registers the loaded configuration.
func ProvideConfig(cfg *v1alpha1.Config) Module {
	return func(i Injector) error {
		do.ProvideValue(i, cfg)

		return nil
	}
}

// ProvideStreams registers the command's streams. Writers are made safe for
// the concurrent SSH setup.
func ProvideStreams(streams Streams) Module {
	return func(i Injector) error {
		do.ProvideValue(i, Streams{
			In:     streams.In,
			Out:    parallel.NewSyncWriter(streams.Out),
			ErrOut: parallel.NewSyncWriter(streams.ErrOut),
		})

		return nil
	}
}

func provideTimer(i Injector) error {
	do.Provide(i, func(Injector) (timer.Timer, error) {
		return timer.New(), nil
	})

	return nil
}

func provideFs(i Injector) error {
	do.Provide(i, func(Injector) (afero.Fs, error) {
		return afero.NewOsFs(), nil
	})

	return nil
}

// provideLogger registers the diagnostic logger. It writes to stderr and only
// shows debug output in verbose mode.
func provideLogger(i Injector) error {
	do.Provide(i, func(i Injector) (logrus.FieldLogger, error) {
		cfg, err := do.Invoke[*v1alpha1.Config](i)
		if err != nil {
			return nil, err
		}

		streams, err := do.Invoke[Streams](i)
		if err != nil {
			return nil, err
		}

		logger := logrus.New()
		logger.SetOutput(streams.ErrOut)
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
		logger.SetLevel(logrus.WarnLevel)

		if cfg.Verbose {
			logger.SetLevel(logrus.DebugLevel)
		}

		return logger, nil
	})

	return nil
}

// dockerClient closes the SDK client when the injector shuts down.
type dockerClient struct {
	docker.API
}

func (c dockerClient) Shutdown() error {
	return c.Close()
}

func provideDockerClient(i Injector) error {
	do.Provide(i, func(Injector) (docker.API, error) {
		client, err := docker.GetDockerClient()
		if err != nil {
			return nil, err
		}

		return dockerClient{API: client}, nil
	})

	return nil
}

func provideTransports(i Injector) error {
	do.Provide(i, func(i Injector) (*transport.Factory, error) {
		client, err := do.Invoke[docker.API](i)
		if err != nil {
			return nil, err
		}

		cfg, streams, logger, err := base(i)
		if err != nil {
			return nil, err
		}

		return transport.NewFactory(client, cfg, logger, streams.In, streams.Out, streams.ErrOut), nil
	})

	return nil
}

func provideMetrics(i Injector) error {
	do.Provide(i, func(Injector) (*metrics.Registry, error) {
		return metrics.NewRegistry(), nil
	})

	return nil
}

func provideServices(i Injector) error {
	do.Provide(i, func(i Injector) (*image.Provisioner, error) {
		client, err := do.Invoke[docker.API](i)
		if err != nil {
			return nil, err
		}

		cfg, streams, logger, err := base(i)
		if err != nil {
			return nil, err
		}

		fs, err := do.Invoke[afero.Fs](i)
		if err != nil {
			return nil, err
		}

		progress := io.Discard
		if cfg.Verbose {
			progress = streams.Out
		}

		return image.NewProvisioner(client, fs, cfg, logger, progress), nil
	})

	do.Provide(i, func(i Injector) (*storage.Provisioner, error) {
		cfg, local, fs, logger, err := hostServiceDeps(i)
		if err != nil {
			return nil, err
		}

		return storage.NewProvisioner(local, fs, cfg, logger, storage.WithSudo(transport.NeedsSudo())), nil
	})

	do.Provide(i, func(i Injector) (*hostenv.Env, error) {
		cfg, local, fs, logger, err := hostServiceDeps(i)
		if err != nil {
			return nil, err
		}

		return hostenv.New(fs, local, cfg, logger, hostenv.WithSudo(transport.NeedsSudo())), nil
	})

	do.Provide(i, func(i Injector) (*compose.Manager, error) {
		client, err := do.Invoke[docker.API](i)
		if err != nil {
			return nil, err
		}

		cfg, local, _, logger, err := hostServiceDeps(i)
		if err != nil {
			return nil, err
		}

		return compose.NewManager(client, local, cfg, logger), nil
	})

	return nil
}

func provideOrchestrator(i Injector) error {
	do.Provide(i, func(i Injector) (*orchestrator.Orchestrator, error) {
		cfg, streams, logger, err := base(i)
		if err != nil {
			return nil, err
		}

		images, err := do.Invoke[*image.Provisioner](i)
		if err != nil {
			return nil, err
		}

		store, err := do.Invoke[*storage.Provisioner](i)
		if err != nil {
			return nil, err
		}

		manager, err := do.Invoke[*compose.Manager](i)
		if err != nil {
			return nil, err
		}

		env, err := do.Invoke[*hostenv.Env](i)
		if err != nil {
			return nil, err
		}

		transports, err := do.Invoke[*transport.Factory](i)
		if err != nil {
			return nil, err
		}

		fs, err := do.Invoke[afero.Fs](i)
		if err != nil {
			return nil, err
		}

		registry, err := do.Invoke[*metrics.Registry](i)
		if err != nil {
			return nil, err
		}

		return orchestrator.New(cfg, orchestrator.Deps{
			Images:     images,
			Storage:    store,
			Compose:    manager,
			Env:        env,
			Transports: transports,
			FS:         fs,
			Metrics:    registry,
			Out:        streams.Out,
			Logger:     logger,
			Sudo:       transport.NeedsSudo(),
		}), nil
	})

	return nil
}

func base(i Injector) (*v1alpha1.Config, Streams, logrus.FieldLogger, error) {
	cfg, err := do.Invoke[*v1alpha1.Config](i)
	if err != nil {
		return nil, Streams{}, nil, err
	}

	streams, err := do.Invoke[Streams](i)
	if err != nil {
		return nil, Streams{}, nil, err
	}

	logger, err := do.Invoke[logrus.FieldLogger](i)
	if err != nil {
		return nil, Streams{}, nil, err
	}

	return cfg, streams, logger, nil
}

func hostServiceDeps(i Injector) (*v1alpha1.Config, transport.Transport, afero.Fs, logrus.FieldLogger, error) {
	cfg, _, logger, err := base(i)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	transports, err := do.Invoke[*transport.Factory](i)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	fs, err := do.Invoke[afero.Fs](i)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	return cfg, transports.Local(), fs, logger, nil
}
