package hostenv

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/devantler-tech/box/pkg/apis/box/v1alpha1"
	"github.com/devantler-tech/box/pkg/svc/transport"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

const (
	cgroupControllersPath = "/sys/fs/cgroup/cgroup.controllers"
	procModulesPath       = "/proc/modules"
	loopModule            = "loop"
)

// Env answers questions about the local host and prepares it for the container group.
type Env struct {
	fs     afero.Fs
	runner transport.Transport
	marker string
	sudo   bool
	goos   string
	logger logrus.FieldLogger
}

// Option configures an Env.
type Option func(*Env)

// WithSudo forces privileged commands to be prefixed with sudo (true) or not (false).
func WithSudo(sudo bool) Option {
	return func(e *Env) { e.sudo = sudo }
}

// WithGOOS overrides the detected operating system.
func WithGOOS(goos string) Option {
	return func(e *Env) { e.goos = goos }
}

// New creates an Env reading files from fs and running commands through runner.
func New(
	fs afero.Fs,
	runner transport.Transport,
	cfg *v1alpha1.Config,
	logger logrus.FieldLogger,
	opts ...Option,
) *Env {
	env := &Env{
		fs:     fs,
		runner: runner,
		marker: cfg.Bootstrap.Marker,
		sudo:   transport.NeedsSudo(),
		goos:   runtime.GOOS,
		logger: logger.WithField("component", "hostenv"),
	}

	for _, opt := range opts {
		opt(env)
	}

	return env
}

// InsideSeed reports whether the process runs inside a box container.
func (e *Env) InsideSeed() bool {
	return InsideSeed(e.fs, e.marker)
}

// InsideSeed reports whether marker exists on fs. It needs no logger or
// transport, so commands can check where they run before building either.
func InsideSeed(fs afero.Fs, marker string) bool {
	exists, err := afero.Exists(fs, marker)

	return err == nil && exists
}

// CgroupV2 reports whether the host uses the unified cgroup hierarchy.
func (e *Env) CgroupV2() bool {
	exists, err := afero.Exists(e.fs, cgroupControllersPath)

	return err == nil && exists
}

// EnableForwarding turns on IPv4 forwarding and accepts forwarded traffic so host
// containers can reach each other through the bridge.
func (e *Env) EnableForwarding(ctx context.Context) error {
	for _, argv := range [][]string{
		{"sysctl", "net.ipv4.conf.all.forwarding=1"},
		{"iptables", "-P", "FORWARD", "ACCEPT"},
	} {
		_, err := e.runner.Run(ctx, transport.Privileged(e.sudo, argv...))
		if err != nil {
			return fmt.Errorf("failed to enable forwarding: %w", err)
		}
	}

	return nil
}

// EnsureLoopModule loads the loop kernel module if it is not already loaded.
// Only Linux hosts are touched. A built-in module is absent from /proc/modules,
// in which case modprobe succeeds without doing anything.
func (e *Env) EnsureLoopModule(ctx context.Context) error {
	if e.goos != "linux" {
		return nil
	}

	data, err := afero.ReadFile(e.fs, procModulesPath)
	if err == nil && ContainsModule(string(data), loopModule) {
		return nil
	}

	e.logger.Debug("loading loop kernel module")

	_, err = e.runner.Run(ctx, transport.Privileged(e.sudo, "modprobe", loopModule))
	if err != nil {
		return fmt.Errorf("failed to load %s kernel module: %w", loopModule, err)
	}

	return nil
}

// ContainsModule checks if a module name appears in /proc/modules output.
func ContainsModule(modulesContent, moduleName string) bool {
	// "module_name size refcount deps state offset", one module per line
	for line := range strings.SplitSeq(modulesContent, "\n") {
		fields := strings.Fields(line)
		if len(fields) > 0 && fields[0] == moduleName {
			return true
		}
	}

	return false
}
