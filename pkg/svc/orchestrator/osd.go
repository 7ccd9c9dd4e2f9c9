package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/devantler-tech/box/pkg/apis/box/v1alpha1"
	"github.com/devantler-tech/box/pkg/svc/storage"
	"github.com/devantler-tech/box/pkg/svc/transport"
	"github.com/devantler-tech/box/pkg/utils/notify"
)

// osdCreatedMarker is printed by the orchestrator once an OSD daemon exists.
const osdCreatedMarker = "Created osd(s)"

type orchestratorHost struct {
	Hostname string `json:"hostname"`
	Addr     string `json:"addr"`
}

// CreateLoop creates the loop-backed volume group with count logical volumes.
func (o *Orchestrator) CreateLoop(ctx context.Context, count int) (v1alpha1.StorageVolumeSet, error) {
	err := o.requireOutside()
	if err != nil {
		return v1alpha1.StorageVolumeSet{}, err
	}

	if count < 0 {
		return v1alpha1.StorageVolumeSet{}, fmt.Errorf("%w: osds=%d", v1alpha1.ErrNegativeCount, count)
	}

	return o.createLoop(ctx, count)
}

func (o *Orchestrator) createLoop(ctx context.Context, count int) (v1alpha1.StorageVolumeSet, error) {
	err := o.env.EnsureLoopModule(ctx)
	if err != nil {
		return v1alpha1.StorageVolumeSet{}, fmt.Errorf("failed to load loop module: %w", err)
	}

	set, err := o.storage.Create(ctx, count)
	if err != nil {
		return set, fmt.Errorf("failed to create storage: %w", err)
	}

	o.logger.WithField("volumes", set.LogicalVolumes).Debug("storage ready")

	return set, nil
}

// DeployOSDs places one OSD on every logical volume of vg, assigning volumes
// to the cluster's hosts round-robin. Works from the host and from the seed.
func (o *Orchestrator) DeployOSDs(ctx context.Context, vg string) error {
	return o.deployOSDs(ctx, vg)
}

func (o *Orchestrator) deployOSDs(ctx context.Context, vg string) error {
	seed, err := o.seed(ctx)
	if err != nil {
		return err
	}

	res, err := seed.Run(ctx, transport.Cmd("lvs", "--reportformat", "json"))
	if err != nil {
		return fmt.Errorf("failed to list logical volumes: %w", err)
	}

	volumes, err := storage.ParseLogicalVolumes([]byte(res.Stdout), vg)
	if err != nil {
		return fmt.Errorf("failed to list logical volumes: %w", err)
	}

	if len(volumes) == 0 {
		return fmt.Errorf("%w: volume group %s has none", ErrOSDsWithoutVolumes, vg)
	}

	hosts, err := o.orchestratorHosts(ctx, seed)
	if err != nil {
		return err
	}

	for i, volume := range volumes {
		host := hosts[i%len(hosts)]

		err = o.deployOSD(ctx, seed, host.Hostname, vg+"/"+volume)
		if err != nil {
			return err
		}
	}

	return nil
}

// DeployOSD places one OSD on data (vg/lv or a device path) of hostname.
func (o *Orchestrator) DeployOSD(ctx context.Context, hostname, data string) error {
	seed, err := o.seed(ctx)
	if err != nil {
		return err
	}

	return o.deployOSD(ctx, seed, hostname, data)
}

func (o *Orchestrator) deployOSD(ctx context.Context, seed transport.Transport, hostname, data string) error {
	argv := o.shell.Argv("ceph", "orch", "daemon", "add", "osd", hostname+":"+data)

	res, err := seed.Run(ctx, transport.Cmd(argv...))
	if err != nil {
		return fmt.Errorf("failed to deploy osd on %s:%s: %w", hostname, data, err)
	}

	if !strings.Contains(res.Stdout+res.Stderr, osdCreatedMarker) {
		return fmt.Errorf("%w: %s:%s: %s", ErrOSDNotCreated, hostname, data, res.Output())
	}

	notify.Successf(o.out, "deployed osd on %s:%s", hostname, data)

	return nil
}

func (o *Orchestrator) orchestratorHosts(ctx context.Context, seed transport.Transport) ([]orchestratorHost, error) {
	argv := o.shell.Argv("ceph", "orch", "host", "ls", "--format", "json")

	res, err := seed.Run(ctx, transport.Cmd(argv...))
	if err != nil {
		return nil, fmt.Errorf("failed to list cluster hosts: %w", err)
	}

	var hosts []orchestratorHost

	err = json.Unmarshal([]byte(strings.TrimSpace(res.Stdout)), &hosts)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cluster hosts: %w", err)
	}

	if len(hosts) == 0 {
		return nil, ErrNoOrchestratorHosts
	}

	return hosts, nil
}
