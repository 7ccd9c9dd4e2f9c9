package image

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/devantler-tech/box/pkg/apis/box/v1alpha1"
	"github.com/devantler-tech/box/pkg/client/docker"
	"github.com/devantler-tech/box/pkg/fsutil"
	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/filters"
	dockerimage "github.com/docker/docker/api/types/image"
	"github.com/docker/docker/pkg/archive"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

const dockerfileName = "Dockerfile"

// Paths inside the box directory that never belong in a build context.
var boxContextExcludes = []string{ //nolint:gochecknoglobals // static exclude list
	"loop-images",
	"docker/ceph/image",
	fsutil.LockFileName,
}

// Provisioner builds, pulls, archives and loads the box images.
type Provisioner struct {
	client   docker.ImageAPI
	fs       afero.Fs
	boxDir   string
	images   v1alpha1.ImageOptions
	logger   logrus.FieldLogger
	progress io.Writer
}

// NewProvisioner creates a Provisioner. Daemon progress is echoed to progress when it is non-nil.
func NewProvisioner(
	client docker.ImageAPI,
	fs afero.Fs,
	cfg *v1alpha1.Config,
	logger logrus.FieldLogger,
	progress io.Writer,
) *Provisioner {
	return &Provisioner{
		client:   client,
		fs:       fs,
		boxDir:   cfg.BoxDir,
		images:   cfg.Images,
		logger:   logger.WithField("component", "image"),
		progress: progress,
	}
}

// CephImage returns the base cluster image reference.
func (p *Provisioner) CephImage() string {
	return p.images.Ceph
}

// BoxImage returns the box image reference.
func (p *Provisioner) BoxImage() string {
	return p.images.Box
}

// ArchivePath returns the absolute path of the base image archive.
func (p *Provisioner) ArchivePath() string {
	return fsutil.Resolve(p.boxDir, p.images.Archive)
}

// Exists reports whether ref (name:tag) is present in the local image store.
func (p *Provisioner) Exists(ctx context.Context, ref string) (v1alpha1.ImageRecord, error) {
	record := splitReference(ref)

	images, err := p.client.ImageList(ctx, dockerimage.ListOptions{
		Filters: filters.NewArgs(filters.Arg("reference", ref)),
	})
	if err != nil {
		return record, fmt.Errorf("failed to list images: %w", err)
	}

	for _, summary := range images {
		for _, tag := range summary.RepoTags {
			if tag == ref {
				record.Present = true

				return record, nil
			}
		}
	}

	return record, nil
}

// EnsureBaseImage pulls the upstream base image, rebuilds the derived image on top
// of it under the same reference and saves it to the archive, replacing any previous one.
func (p *Provisioner) EnsureBaseImage(ctx context.Context) error {
	err := p.Pull(ctx, p.images.Ceph)
	if err != nil {
		return err
	}

	err = p.Build(ctx, fsutil.Resolve(p.boxDir, v1alpha1.DefaultCephBuildContext), p.images.Ceph, "image")
	if err != nil {
		return err
	}

	return p.Save(ctx, p.images.Ceph, p.ArchivePath())
}

// EnsureBoxImage builds the box image from the box directory's Dockerfile.
func (p *Provisioner) EnsureBoxImage(ctx context.Context) error {
	return p.Build(ctx, p.boxDir, p.images.Box, boxContextExcludes...)
}

// Pull pulls ref and waits for the daemon to finish.
func (p *Provisioner) Pull(ctx context.Context, ref string) error {
	p.logger.WithField("image", ref).Debug("pulling image")

	body, err := p.client.ImagePull(ctx, ref, dockerimage.PullOptions{})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPullFailed, ref, err)
	}

	defer func() { _ = body.Close() }()

	err = drainMessages(body, p.progress, ErrPullFailed)
	if err != nil {
		return fmt.Errorf("pull %s: %w", ref, err)
	}

	return nil
}

// Build builds the Dockerfile in contextDir and tags the result as ref.
func (p *Provisioner) Build(ctx context.Context, contextDir, ref string, excludes ...string) error {
	p.logger.WithField("image", ref).WithField("context", contextDir).Debug("building image")

	buildContext, err := archive.TarWithOptions(contextDir, &archive.TarOptions{ExcludePatterns: excludes})
	if err != nil {
		return fmt.Errorf("%w: failed to create build context from %s: %w", ErrBuildFailed, contextDir, err)
	}

	defer func() { _ = buildContext.Close() }()

	resp, err := p.client.ImageBuild(ctx, buildContext, types.ImageBuildOptions{
		Tags:       []string{ref},
		Dockerfile: dockerfileName,
		Remove:     true,
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrBuildFailed, ref, err)
	}

	defer func() { _ = resp.Body.Close() }()

	err = drainMessages(resp.Body, p.progress, ErrBuildFailed)
	if err != nil {
		return fmt.Errorf("build %s: %w", ref, err)
	}

	return nil
}

func splitReference(ref string) v1alpha1.ImageRecord {
	// The tag separator is the last colon after the last slash, so registry ports survive.
	slash := strings.LastIndex(ref, "/")

	colon := strings.LastIndex(ref, ":")
	if colon <= slash {
		return v1alpha1.ImageRecord{Name: ref, Tag: "latest"}
	}

	return v1alpha1.ImageRecord{Name: ref[:colon], Tag: ref[colon+1:]}
}
