package orchestrator

import (
	"context"
	"io"
	"os"

	"github.com/devantler-tech/box/pkg/apis/box/v1alpha1"
	"github.com/devantler-tech/box/pkg/cli/parallel"
	"github.com/devantler-tech/box/pkg/svc/bootstrap"
	"github.com/devantler-tech/box/pkg/svc/metrics"
	"github.com/devantler-tech/box/pkg/svc/transport"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Images ensures the cluster images are available locally.
type Images interface {
	Exists(ctx context.Context, ref string) (v1alpha1.ImageRecord, error)
	EnsureBaseImage(ctx context.Context) error
	EnsureBoxImage(ctx context.Context) error
	ArchiveExists() bool
	RemoveArchive(ctx context.Context) (bool, error)
	Load(ctx context.Context, path string) error
	CephImage() string
	BoxImage() string
}

// Storage provisions the loop-back volume group.
type Storage interface {
	Create(ctx context.Context, count int) (v1alpha1.StorageVolumeSet, error)
	Destroy(ctx context.Context) error
	List(ctx context.Context) (v1alpha1.StorageVolumeSet, error)
}

// Compose manages the container group.
type Compose interface {
	Up(ctx context.Context, hosts int, files []string) error
	Down(ctx context.Context) error
	Topology(ctx context.Context, withSeed bool) (v1alpha1.ClusterTopology, error)
	Seed(ctx context.Context) (string, error)
	Host(ctx context.Context, index int) (string, error)
}

// HostEnv probes and prepares the machine box runs on.
type HostEnv interface {
	InsideSeed() bool
	CgroupV2() bool
	EnableForwarding(ctx context.Context) error
	EnsureLoopModule(ctx context.Context) error
}

// Transports hands out command transports to the machines of the cluster.
type Transports interface {
	Local() transport.Transport
	Container(containerID string) transport.Transport
	SSH(ip string) transport.Transport
	Interactive(ctx context.Context, containerID string, argv []string) error
}

// Deps are the collaborators of an Orchestrator.
type Deps struct {
	Images     Images
	Storage    Storage
	Compose    Compose
	Env        HostEnv
	Transports Transports
	// FS is the filesystem the seed bootstrap writes to.
	FS      afero.Fs
	Metrics *metrics.Registry
	// Out receives progress messages.
	Out    io.Writer
	Logger logrus.FieldLogger
	// Sudo prefixes privileged commands with sudo.
	Sudo bool
	// Getenv and Setenv access the process environment.
	Getenv func(string) string
	Setenv func(string, string) error
	// HomeDir holds the shell profile updated during bootstrap.
	HomeDir string
}

// Orchestrator runs the cluster lifecycle operations.
type Orchestrator struct {
	cfg        *v1alpha1.Config
	images     Images
	storage    Storage
	compose    Compose
	env        HostEnv
	transports Transports
	fs         afero.Fs
	metrics    *metrics.Registry
	out        io.Writer
	logger     logrus.FieldLogger
	sudo       bool
	getenv     func(string) string
	setenv     func(string, string) error
	homeDir    string
	shell      bootstrap.Shell
	executor   *parallel.Executor
}

// New creates an Orchestrator. Unset optional dependencies fall back to the process defaults.
func New(cfg *v1alpha1.Config, deps Deps) *Orchestrator {
	orchestrator := &Orchestrator{
		cfg:        cfg,
		images:     deps.Images,
		storage:    deps.Storage,
		compose:    deps.Compose,
		env:        deps.Env,
		transports: deps.Transports,
		fs:         deps.FS,
		metrics:    deps.Metrics,
		out:        deps.Out,
		logger:     deps.Logger,
		sudo:       deps.Sudo,
		getenv:     deps.Getenv,
		setenv:     deps.Setenv,
		homeDir:    deps.HomeDir,
		shell:      bootstrap.NewShell(cfg),
		executor:   parallel.NewExecutor(0),
	}

	if orchestrator.fs == nil {
		orchestrator.fs = afero.NewOsFs()
	}

	if orchestrator.metrics == nil {
		orchestrator.metrics = metrics.NewRegistry()
	}

	if orchestrator.out == nil {
		orchestrator.out = io.Discard
	}

	if orchestrator.logger == nil {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		orchestrator.logger = logger
	}

	if orchestrator.getenv == nil {
		orchestrator.getenv = os.Getenv
	}

	if orchestrator.setenv == nil {
		orchestrator.setenv = os.Setenv
	}

	if orchestrator.homeDir == "" {
		orchestrator.homeDir, _ = os.UserHomeDir()
	}

	return orchestrator
}

// Metrics returns the step metrics recorded so far.
func (o *Orchestrator) Metrics() *metrics.Registry {
	return o.metrics
}

func (o *Orchestrator) requireOutside() error {
	if o.env.InsideSeed() {
		return ErrMustRunOutside
	}

	return nil
}

func (o *Orchestrator) requireInside() error {
	if !o.env.InsideSeed() {
		return ErrMustRunInside
	}

	return nil
}

// seed returns a transport into the seed: the local machine when already inside it.
func (o *Orchestrator) seed(ctx context.Context) (transport.Transport, error) { //nolint:ireturn // either transport
	if o.env.InsideSeed() {
		return o.transports.Local(), nil
	}

	id, err := o.compose.Seed(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck // already describes the missing seed
	}

	return o.transports.Container(id), nil
}

func (o *Orchestrator) privileged(argv ...string) transport.Command {
	return transport.Privileged(o.sudo, argv...)
}

func closeTransport(t transport.Transport) {
	if closer, ok := t.(io.Closer); ok {
		_ = closer.Close()
	}
}
