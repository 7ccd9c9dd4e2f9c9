package orchestrator

import (
	"bytes"
	"context"
	"fmt"

	"github.com/devantler-tech/box/pkg/apis/box/v1alpha1"
	"github.com/devantler-tech/box/pkg/svc/compose"
	"github.com/devantler-tech/box/pkg/svc/transport"
	"github.com/devantler-tech/box/pkg/utils/notify"
)

// Step names recorded in the metrics.
const (
	StepTeardown   = "teardown"
	StepImages     = "images"
	StepStorage    = "storage"
	StepUp         = "up"
	StepForwarding = "forwarding"
	StepSSH        = "ssh"
	StepBootstrap  = "bootstrap"
	StepCopyKey    = "copy-key"
	StepAddHosts   = "add-hosts"
	StepDeployOSDs = "deploy-osds"
)

// Setup builds the base image, its archive and the box image.
func (o *Orchestrator) Setup(ctx context.Context) error {
	err := o.requireOutside()
	if err != nil {
		return err
	}

	notify.Activityf(o.out, "building base image %s", o.images.CephImage())

	err = o.images.EnsureBaseImage(ctx)
	if err != nil {
		return fmt.Errorf("failed to set up base image: %w", err)
	}

	notify.Activityf(o.out, "building box image %s", o.images.BoxImage())

	err = o.images.EnsureBoxImage(ctx)
	if err != nil {
		return fmt.Errorf("failed to set up box image: %w", err)
	}

	return nil
}

// Cleanup removes the volume group, the loop image and the image archive.
// Nothing to remove is success.
func (o *Orchestrator) Cleanup(ctx context.Context) error {
	err := o.requireOutside()
	if err != nil {
		return err
	}

	return o.cleanup(ctx)
}

func (o *Orchestrator) cleanup(ctx context.Context) error {
	err := o.storage.Destroy(ctx)
	if err != nil {
		return fmt.Errorf("failed to remove storage: %w", err)
	}

	removed, err := o.images.RemoveArchive(ctx)
	if err != nil {
		return fmt.Errorf("failed to remove image archive: %w", err)
	}

	if removed {
		o.logger.Debug("removed image archive")
	}

	return nil
}

// Down stops the containers and cleans up. Nothing running is success.
func (o *Orchestrator) Down(ctx context.Context) error {
	err := o.requireOutside()
	if err != nil {
		return err
	}

	err = o.compose.Down(ctx)
	if err != nil {
		return fmt.Errorf("failed to stop containers: %w", err)
	}

	return o.cleanup(ctx)
}

// List returns the running nodes, seed included, and the number of logical
// volumes available for OSDs.
func (o *Orchestrator) List(ctx context.Context) (v1alpha1.ClusterTopology, error) {
	err := o.requireOutside()
	if err != nil {
		return v1alpha1.ClusterTopology{}, err
	}

	topology, err := o.compose.Topology(ctx, true)
	if err != nil {
		return v1alpha1.ClusterTopology{}, fmt.Errorf("failed to list nodes: %w", err)
	}

	volumes, err := o.storage.List(ctx)
	if err != nil {
		return v1alpha1.ClusterTopology{}, fmt.Errorf("failed to list volumes: %w", err)
	}

	topology.OSDs = volumes.Count()

	return topology, nil
}

// Shell attaches the terminal to bash in the seed.
func (o *Orchestrator) Shell(ctx context.Context) error {
	err := o.requireOutside()
	if err != nil {
		return err
	}

	id, err := o.compose.Seed(ctx)
	if err != nil {
		return fmt.Errorf("failed to find seed: %w", err)
	}

	return o.transports.Interactive(ctx, id, []string{"bash"})
}

// Validate rejects start options that cannot produce the requested cluster.
func Validate(opts v1alpha1.StartOptions) error {
	if opts.OSDs < 0 || opts.Hosts < 0 {
		return fmt.Errorf("%w: osds=%d hosts=%d", v1alpha1.ErrNegativeCount, opts.OSDs, opts.Hosts)
	}

	if opts.Expanded && !opts.SkipDeployOSDs && (opts.SkipCreateLoop || opts.OSDs == 0) {
		return fmt.Errorf(
			"%w: pass --skip-deploy-osds or create volumes with --osds > 0",
			ErrOSDsWithoutVolumes,
		)
	}

	return nil
}

// Start replaces whatever runs with a fresh cluster. It is destructive: the
// previous containers and storage are removed without confirmation.
func (o *Orchestrator) Start(ctx context.Context, opts v1alpha1.StartOptions) error {
	err := o.requireOutside()
	if err != nil {
		return err
	}

	err = Validate(opts)
	if err != nil {
		return err
	}

	o.metrics.SetTopology(opts.Hosts, opts.OSDs)

	steps := []struct {
		name string
		msg  string
		skip bool
		fn   func(context.Context) error
	}{
		{StepTeardown, "removing previous containers", false, o.compose.Down},
		{StepImages, "checking images", false, o.ensureImages},
		{StepStorage, "creating storage", opts.SkipCreateLoop, func(ctx context.Context) error {
			_, err := o.createLoop(ctx, opts.OSDs)

			return err
		}},
		{StepUp, "starting containers", false, func(ctx context.Context) error {
			return o.compose.Up(ctx, opts.Hosts, compose.Files(o.env.CgroupV2()))
		}},
		{StepForwarding, "enabling forwarding", false, o.env.EnableForwarding},
		{StepSSH, "configuring ssh on hosts", false, func(ctx context.Context) error {
			return o.setupSSHAll(ctx, opts.Hosts)
		}},
		{StepBootstrap, "bootstrapping seed", false, func(ctx context.Context) error {
			return o.requestBootstrap(ctx, v1alpha1.NewBootstrapRequest(opts, o.cfg.Verbose))
		}},
		{StepCopyKey, "copying cluster key to hosts", false, o.copyClusterKey},
		{StepAddHosts, "adding hosts", !opts.Expanded, o.addHosts},
		{StepDeployOSDs, "deploying osds", !opts.Expanded || opts.SkipDeployOSDs, func(ctx context.Context) error {
			return o.deployOSDs(ctx, o.cfg.Storage.VolumeGroup)
		}},
	}

	for _, step := range steps {
		if step.skip {
			o.logger.WithField("step", step.name).Debug("skipped")

			continue
		}

		notify.Activityf(o.out, "%s", step.msg)

		err = o.metrics.Track(step.name, func() error { return step.fn(ctx) })
		if err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}

	return nil
}

func (o *Orchestrator) ensureImages(ctx context.Context) error {
	base, err := o.images.Exists(ctx, o.images.CephImage())
	if err != nil {
		return fmt.Errorf("failed to inspect base image: %w", err)
	}

	if !base.Present || !o.images.ArchiveExists() {
		notify.Activityf(o.out, "base image or archive missing, building %s", o.images.CephImage())

		err = o.images.EnsureBaseImage(ctx)
		if err != nil {
			return fmt.Errorf("failed to set up base image: %w", err)
		}
	}

	box, err := o.images.Exists(ctx, o.images.BoxImage())
	if err != nil {
		return fmt.Errorf("failed to inspect box image: %w", err)
	}

	if !box.Present {
		notify.Activityf(o.out, "box image missing, building %s", o.images.BoxImage())

		err = o.images.EnsureBoxImage(ctx)
		if err != nil {
			return fmt.Errorf("failed to set up box image: %w", err)
		}
	}

	return nil
}

// requestBootstrap runs the box binary inside the seed with the request on stdin.
func (o *Orchestrator) requestBootstrap(ctx context.Context, req v1alpha1.BootstrapRequest) error {
	id, err := o.compose.Seed(ctx)
	if err != nil {
		return fmt.Errorf("failed to find seed: %w", err)
	}

	var payload bytes.Buffer

	err = req.Encode(&payload)
	if err != nil {
		return err //nolint:wrapcheck // already wrapped by Encode
	}

	argv := []string{o.cfg.Bootstrap.BoxBinary}
	if o.cfg.Verbose {
		argv = append(argv, "-v")
	}

	argv = append(argv, "cluster", "bootstrap", "--request", "-")

	_, err = o.transports.Container(id).Run(ctx, transport.Cmd(argv...).WithStdin(&payload))
	if err != nil {
		return fmt.Errorf("seed bootstrap failed: %w", err)
	}

	return nil
}
