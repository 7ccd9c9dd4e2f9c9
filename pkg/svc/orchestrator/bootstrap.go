package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/devantler-tech/box/pkg/apis/box/v1alpha1"
	"github.com/devantler-tech/box/pkg/fsutil"
	"github.com/devantler-tech/box/pkg/svc/bootstrap"
	"github.com/devantler-tech/box/pkg/svc/transport"
	"github.com/devantler-tech/box/pkg/utils/notify"
	"github.com/spf13/afero"
)

const (
	executablePerm = 0o755
	configDirPerm  = 0o755
	// boxLink exposes the box binary on PATH in the seed.
	boxLink = "/usr/bin/box"
)

// Bootstrap brings up the first monitor in the seed. It must run inside the seed.
func (o *Orchestrator) Bootstrap(ctx context.Context, req v1alpha1.BootstrapRequest) error {
	err := o.requireInside()
	if err != nil {
		return err
	}

	cephadm := o.cfg.Bootstrap.CephadmPath
	if cephadm == "" {
		cephadm = o.getenv(v1alpha1.EnvCephadmPath)
	}

	if cephadm == "" {
		return ErrCephadmPathUnset
	}

	local := o.transports.Local()

	steps := []struct {
		name string
		fn   func() error
	}{
		{"expose-cephadm", func() error { return o.exposeCephadm(cephadm) }},
		{"restart-docker", func() error {
			return o.runLocal(ctx, local, o.privileged("systemctl", "restart", "docker"))
		}},
		{"load-image", func() error { return o.images.Load(ctx, o.cfg.Bootstrap.ArchiveInSeed) }},
		{"environment", o.exportEnvironment},
		{"config-folder", func() error {
			return o.fs.MkdirAll(o.cfg.Bootstrap.ConfigFolder, configDirPerm)
		}},
		{"cephadm-bootstrap", func() error { return o.runBootstrap(ctx, local, req, cephadm) }},
		{"refresh-volumes", func() error {
			return o.runLocal(ctx, local, o.privileged("vgchange", "--refresh"))
		}},
		{"cephadm-ls", func() error { return o.runLocal(ctx, local, transport.Cmd(cephadm, "ls")) }},
		{"link-box", func() error {
			o.linkBox()

			return nil
		}},
		{"status", func() error {
			return o.runLocal(ctx, local, transport.Cmd(o.shell.Argv("ceph", "-s")...))
		}},
	}

	for _, step := range steps {
		o.logger.WithField("step", step.name).Debug("bootstrap")

		err = o.metrics.Track(StepBootstrap+"/"+step.name, step.fn)
		if err != nil {
			return fmt.Errorf("bootstrap %s: %w", step.name, err)
		}
	}

	notify.Successf(o.out, "cluster %s bootstrapped", o.cfg.Bootstrap.FSID)

	return nil
}

func (o *Orchestrator) runLocal(ctx context.Context, local transport.Transport, cmd transport.Command) error {
	_, err := local.Run(ctx, cmd)

	return err //nolint:wrapcheck // ExitError carries the command and its output
}

// exposeCephadm makes the bundled cephadm available at target.
func (o *Orchestrator) exposeCephadm(target string) error {
	source := o.cfg.Bootstrap.CephadmSource

	_, err := fsutil.RemoveIfExists(o.fs, target)
	if err != nil {
		return err //nolint:wrapcheck // already wrapped
	}

	linked := false

	if linker, ok := o.fs.(afero.Linker); ok {
		linkErr := linker.SymlinkIfPossible(source, target)
		if linkErr == nil {
			linked = true
		} else {
			o.logger.WithError(linkErr).Debug("symlink failed, copying cephadm")
		}
	}

	if !linked {
		err = o.copyFile(source, target)
		if err != nil {
			return err
		}
	}

	err = o.fs.Chmod(target, executablePerm)
	if err != nil {
		return fmt.Errorf("failed to make %s executable: %w", target, err)
	}

	return nil
}

func (o *Orchestrator) copyFile(source, target string) error {
	src, err := o.fs.Open(source)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", source, err)
	}

	defer func() { _ = src.Close() }()

	return fsutil.WriteFromReader(o.fs, target, src) //nolint:wrapcheck // already wrapped
}

func (o *Orchestrator) exportEnvironment() error {
	for _, entry := range bootstrap.Environment(o.cfg) {
		key, value, _ := strings.Cut(entry, "=")

		err := o.setenv(key, value)
		if err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	profile := filepath.Join(o.homeDir, ".bashrc")

	_, err := fsutil.AppendLineOnce(o.fs, profile, bootstrap.ProfileLine(o.cfg))

	return err //nolint:wrapcheck // already wrapped
}

func (o *Orchestrator) runBootstrap(
	ctx context.Context,
	local transport.Transport,
	req v1alpha1.BootstrapRequest,
	cephadm string,
) error {
	res, err := local.Run(ctx, transport.Cmd("hostname", "-i"))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoMonIP, err)
	}

	fields := strings.Fields(res.Stdout)
	if len(fields) == 0 {
		return ErrNoMonIP
	}

	cmd := bootstrap.NewCommand(o.cfg, req, cephadm, fields[0])

	notify.Activityf(o.out, "running cephadm bootstrap with mon ip %s", cmd.MonIP)

	return o.runLocal(ctx, local, transport.Cmd(cmd.Argv()...).WithEnv(bootstrap.Environment(o.cfg)...))
}

// linkBox puts the box binary on PATH for interactive use. Failure only warns.
func (o *Orchestrator) linkBox() {
	linker, ok := o.fs.(afero.Linker)
	if !ok {
		return
	}

	_, err := fsutil.RemoveIfExists(o.fs, boxLink)
	if err == nil {
		err = linker.SymlinkIfPossible(o.cfg.Bootstrap.BoxBinary, boxLink)
	}

	if err != nil && !errors.Is(err, os.ErrExist) {
		notify.Warningf(o.out, "could not link %s to %s: %v", o.cfg.Bootstrap.BoxBinary, boxLink, err)
	}
}
