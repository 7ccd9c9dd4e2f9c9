package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/devantler-tech/box/pkg/apis/box/v1alpha1"
	"github.com/devantler-tech/box/pkg/fsutil"
	"github.com/devantler-tech/box/pkg/svc/transport"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

const (
	// loopMajor is the block major number of loop devices.
	loopMajor = 7
	// maxVolumes is the most volumes that still get a whole percent of the group each.
	maxVolumes = 100
)

// Provisioner manages the loop-back volume group on the local host.
type Provisioner struct {
	runner transport.Transport
	fs     afero.Fs
	boxDir string
	opts   v1alpha1.StorageOptions
	sudo   bool
	logger logrus.FieldLogger
}

// Option configures a Provisioner.
type Option func(*Provisioner)

// WithSudo forces privileged commands to be prefixed with sudo (true) or not (false).
func WithSudo(sudo bool) Option {
	return func(p *Provisioner) { p.sudo = sudo }
}

// NewProvisioner creates a Provisioner. Privileged commands use sudo unless the process runs as root.
func NewProvisioner(
	runner transport.Transport,
	fs afero.Fs,
	cfg *v1alpha1.Config,
	logger logrus.FieldLogger,
	opts ...Option,
) *Provisioner {
	provisioner := &Provisioner{
		runner: runner,
		fs:     fs,
		boxDir: cfg.BoxDir,
		opts:   cfg.Storage,
		sudo:   transport.NeedsSudo(),
		logger: logger.WithField("component", "storage"),
	}

	for _, opt := range opts {
		opt(provisioner)
	}

	return provisioner
}

// LoopImagePath returns the absolute path of the sparse backing file.
func (p *Provisioner) LoopImagePath() string {
	return fsutil.Resolve(p.boxDir, p.opts.LoopImage)
}

// SizeGiB returns the backing file size for count logical volumes.
func (p *Provisioner) SizeGiB(count int) int {
	return p.opts.GiBPerOSD*count + 1
}

// Create builds a fresh volume group with count logical volumes on a new loop device.
// Any previous group with the same name is destroyed. count <= 0 is a no-op.
func (p *Provisioner) Create(ctx context.Context, count int) (v1alpha1.StorageVolumeSet, error) {
	set := v1alpha1.StorageVolumeSet{VolumeGroup: p.opts.VolumeGroup}

	if count <= 0 {
		return set, nil
	}

	if count > maxVolumes {
		return set, fmt.Errorf("%w: %d requested, at most %d", ErrTooManyVolumes, count, maxVolumes)
	}

	unlock, err := fsutil.LockBoxDir(ctx, p.boxDir)
	if err != nil {
		return set, err
	}

	defer unlock()

	device, err := p.freeLoopDevice(ctx)
	if err != nil {
		return set, err
	}

	err = p.attachImage(ctx, device, p.SizeGiB(count))
	if err != nil {
		return set, err
	}

	// Leftovers from a previous run would make vgcreate fail on the name.
	err = p.removeGroup(ctx)
	if err != nil {
		return set, err
	}

	for _, argv := range [][]string{
		{"pvcreate", device},
		{"vgcreate", p.opts.VolumeGroup, device},
	} {
		_, err = p.run(ctx, argv...)
		if err != nil {
			return set, err
		}
	}

	percent := 100 / count //nolint:mnd // share of the group per volume

	for i := range count {
		name := v1alpha1.LogicalVolumePrefix + strconv.Itoa(i)

		_, err = p.run(ctx, "vgchange", "--refresh")
		if err != nil {
			return set, err
		}

		_, err = p.run(ctx, "lvcreate", "-l", strconv.Itoa(percent)+"%VG", "--name", name, p.opts.VolumeGroup)
		if err != nil {
			return set, err
		}

		set.LogicalVolumes = append(set.LogicalVolumes, name)
	}

	p.logger.WithField("device", device).WithField("volumes", count).Debug("volume group created")

	return set, nil
}

// Destroy removes the volume group, detaches and wipes its loop device and deletes the backing file.
// Nothing to remove is success.
func (p *Provisioner) Destroy(ctx context.Context) error {
	unlock, err := fsutil.LockBoxDir(ctx, p.boxDir)
	if err != nil {
		return err
	}

	defer unlock()

	err = p.removeGroup(ctx)
	if err != nil {
		return err
	}

	_, err = fsutil.RemoveIfExists(p.fs, p.LoopImagePath())

	return err
}

// List returns the logical volumes currently in the volume group.
func (p *Provisioner) List(ctx context.Context) (v1alpha1.StorageVolumeSet, error) {
	result, err := p.run(ctx, "lvs", "--reportformat", "json")
	if err != nil {
		return v1alpha1.StorageVolumeSet{}, err
	}

	names, err := ParseLogicalVolumes([]byte(result.Stdout), p.opts.VolumeGroup)
	if err != nil {
		return v1alpha1.StorageVolumeSet{}, err
	}

	return v1alpha1.StorageVolumeSet{VolumeGroup: p.opts.VolumeGroup, LogicalVolumes: names}, nil
}

func (p *Provisioner) freeLoopDevice(ctx context.Context) (string, error) {
	result, err := p.run(ctx, "losetup", "-f")
	if err != nil {
		return "", err
	}

	device := strings.TrimSpace(result.Stdout)
	if device == "" {
		return "", ErrNoFreeLoopDevice
	}

	_, err = p.fs.Stat(device)
	if errors.Is(err, os.ErrNotExist) {
		minor, minorErr := loopMinor(device)
		if minorErr != nil {
			return "", minorErr
		}

		_, err = p.run(ctx, "mknod", device, "b", strconv.Itoa(loopMajor), strconv.Itoa(minor))
		if err != nil {
			return "", err
		}
	}

	attached, err := p.run(ctx, "losetup", "-l", "-J")
	if err != nil {
		return "", err
	}

	inUse, err := loopAttached([]byte(attached.Stdout), device)
	if err != nil {
		return "", err
	}

	if inUse {
		_, err = p.run(ctx, "losetup", "-d", device)
		if err != nil {
			return "", err
		}
	}

	return device, nil
}

func (p *Provisioner) attachImage(ctx context.Context, device string, sizeGiB int) error {
	image := p.LoopImagePath()

	err := p.fs.MkdirAll(filepath.Dir(image), 0o750) //nolint:mnd // rwxr-x---
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(image), err)
	}

	_, err = fsutil.RemoveIfExists(p.fs, image)
	if err != nil {
		return err
	}

	_, err = p.run(ctx, "dd", "if=/dev/zero", "of="+image, "bs=1", "count=0", "seek="+strconv.Itoa(sizeGiB)+"G")
	if err != nil {
		return err
	}

	_, err = p.run(ctx, "losetup", device, image)

	return err
}

// removeGroup tears down the group and its physical volume, leaving the backing file in place.
func (p *Provisioner) removeGroup(ctx context.Context) error {
	result, err := p.run(ctx, "pvs", "--reportformat", "json")
	if err != nil {
		return err
	}

	device, found, err := FindPhysicalVolume([]byte(result.Stdout), p.opts.VolumeGroup)
	if err != nil || !found {
		return err
	}

	for _, argv := range [][]string{
		{"vgremove", "-f", "--yes", p.opts.VolumeGroup},
		{"losetup", "-d", device},
		{"wipefs", "-af", device},
	} {
		_, err = p.run(ctx, argv...)
		if err != nil {
			return err
		}
	}

	// pvremove fails when lvm.conf filters exclude loop devices; the PV is already wiped.
	_, err = p.run(ctx, "pvremove", "-f", "--yes", device)
	if err != nil {
		p.logger.WithError(err).Debug("pvremove failed, ignoring")
	}

	return nil
}

func (p *Provisioner) run(ctx context.Context, argv ...string) (transport.Result, error) {
	result, err := p.runner.Run(ctx, transport.Privileged(p.sudo, argv...))
	if err != nil {
		return result, fmt.Errorf("storage: %w", err)
	}

	return result, nil
}
