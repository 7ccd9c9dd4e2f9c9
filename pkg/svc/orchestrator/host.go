package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/devantler-tech/box/pkg/cli/parallel"
	"github.com/devantler-tech/box/pkg/svc/transport"
	"github.com/devantler-tech/box/pkg/utils/notify"
)

const sshdConfig = "/etc/ssh/sshd_config"

var sshdSettings = []string{
	"PermitRootLogin yes",
	"PasswordAuthentication yes",
}

// SetupSSH enables root password login on host container index (1-based).
func (o *Orchestrator) SetupSSH(ctx context.Context, index int) error {
	err := o.requireOutside()
	if err != nil {
		return err
	}

	return o.setupSSH(ctx, index)
}

func (o *Orchestrator) setupSSHAll(ctx context.Context, hosts int) error {
	tasks := make([]parallel.Task, 0, hosts)

	for index := 1; index <= hosts; index++ {
		tasks = append(tasks, parallel.Task{
			Name: fmt.Sprintf("host %d", index),
			Run: func(ctx context.Context) error {
				return o.setupSSH(ctx, index)
			},
		})
	}

	return o.executor.Execute(ctx, tasks...)
}

func (o *Orchestrator) setupSSH(ctx context.Context, index int) error {
	id, err := o.compose.Host(ctx, index)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrHostNotFound, err)
	}

	host := o.transports.Container(id)

	// -A only generates the key types that are missing.
	_, err = host.Run(ctx, transport.Cmd("ssh-keygen", "-A"))
	if err != nil {
		return fmt.Errorf("failed to generate host keys on host %d: %w", index, err)
	}

	password := o.cfg.SSH.User + ":" + o.cfg.SSH.Password + "\n"

	_, err = host.Run(ctx, transport.Cmd("chpasswd").WithStdin(strings.NewReader(password)))
	if err != nil {
		return fmt.Errorf("failed to set password on host %d: %w", index, err)
	}

	for _, setting := range sshdSettings {
		line := fmt.Sprintf(
			"grep -qxF %s %s || echo %s >> %s",
			transport.Quote(setting), sshdConfig, transport.Quote(setting), sshdConfig,
		)

		_, err = host.Run(ctx, transport.Shell(line))
		if err != nil {
			return fmt.Errorf("failed to configure sshd on host %d: %w", index, err)
		}
	}

	_, err = host.Run(ctx, transport.Cmd("systemctl", "restart", "sshd"))
	if err != nil {
		return fmt.Errorf("failed to restart sshd on host %d: %w", index, err)
	}

	return nil
}

// CopyClusterKey installs the seed's cluster public key on every host.
func (o *Orchestrator) CopyClusterKey(ctx context.Context) error {
	err := o.requireOutside()
	if err != nil {
		return err
	}

	return o.copyClusterKey(ctx)
}

func (o *Orchestrator) copyClusterKey(ctx context.Context) error {
	seed, err := o.seed(ctx)
	if err != nil {
		return err
	}

	res, err := seed.Run(ctx, transport.Cmd("cat", o.cfg.Bootstrap.PublicKey))
	if err != nil {
		return fmt.Errorf("failed to read cluster key: %w", err)
	}

	key := strings.TrimSpace(res.Stdout) + "\n"

	topology, err := o.compose.Topology(ctx, false)
	if err != nil {
		return fmt.Errorf("failed to list hosts: %w", err)
	}

	for _, host := range topology.Hosts {
		err = o.authorize(ctx, host.IP, key)
		if err != nil {
			return err
		}
	}

	return nil
}

func (o *Orchestrator) authorize(ctx context.Context, ip, key string) error {
	remote := o.transports.SSH(ip)
	defer closeTransport(remote)

	cmd := transport.Shell("mkdir -p ~/.ssh && cat >> ~/.ssh/authorized_keys").
		WithStdin(strings.NewReader(key))

	_, err := remote.Run(ctx, cmd)
	if err != nil {
		return fmt.Errorf("failed to install cluster key on %s: %w", ip, err)
	}

	return nil
}

// AddHosts enrols every running host in the cluster orchestrator.
func (o *Orchestrator) AddHosts(ctx context.Context) error {
	err := o.requireOutside()
	if err != nil {
		return err
	}

	return o.addHosts(ctx)
}

func (o *Orchestrator) addHosts(ctx context.Context) error {
	topology, err := o.compose.Topology(ctx, false)
	if err != nil {
		return fmt.Errorf("failed to list hosts: %w", err)
	}

	seed, err := o.seed(ctx)
	if err != nil {
		return err
	}

	for _, host := range topology.Hosts {
		argv := o.shell.Argv("ceph", "orch", "host", "add", host.Hostname, host.IP)

		_, err = seed.Run(ctx, transport.Cmd(argv...))
		if err != nil {
			return fmt.Errorf("failed to add host %s: %w", host.Hostname, err)
		}

		notify.Successf(o.out, "added host %s (%s)", host.Hostname, host.IP)
	}

	return nil
}

// HostExec runs argv on host index (1-based) over SSH and returns its output.
func (o *Orchestrator) HostExec(ctx context.Context, index int, argv []string) (transport.Result, error) {
	err := o.requireOutside()
	if err != nil {
		return transport.Result{}, err
	}

	topology, err := o.compose.Topology(ctx, false)
	if err != nil {
		return transport.Result{}, fmt.Errorf("failed to list hosts: %w", err)
	}

	for _, host := range topology.Hosts {
		if host.Index != index {
			continue
		}

		remote := o.transports.SSH(host.IP)
		defer closeTransport(remote)

		res, err := remote.Run(ctx, transport.Cmd(argv...))
		if err != nil {
			return res, fmt.Errorf("command failed on host %d: %w", index, err)
		}

		return res, nil
	}

	return transport.Result{}, fmt.Errorf("%w: index %d", ErrHostNotFound, index)
}
