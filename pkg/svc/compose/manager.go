package compose

import (
	"context"
	"fmt"
	"net/netip"
	"slices"
	"strconv"
	"strings"

	"github.com/devantler-tech/box/pkg/apis/box/v1alpha1"
	"github.com/devantler-tech/box/pkg/client/docker"
	"github.com/devantler-tech/box/pkg/svc/transport"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/sirupsen/logrus"
)

// Manager starts, stops and inspects the box container group.
type Manager struct {
	client docker.ContainerAPI
	runner transport.Transport
	boxDir string
	opts   v1alpha1.ComposeOptions
	logger logrus.FieldLogger
}

// NewManager creates a Manager. Compose commands run through runner in the box directory.
func NewManager(
	client docker.ContainerAPI,
	runner transport.Transport,
	cfg *v1alpha1.Config,
	logger logrus.FieldLogger,
) *Manager {
	return &Manager{
		client: client,
		runner: runner,
		boxDir: cfg.BoxDir,
		opts:   cfg.Compose,
		logger: logger.WithField("component", "compose"),
	}
}

// Up starts the seed and scales the host service to hosts containers.
func (m *Manager) Up(ctx context.Context, hosts int, files []string) error {
	args := m.base(files...)
	args = append(args, "up", "--scale", m.opts.HostService+"="+strconv.Itoa(hosts), "-d")

	_, err := m.runner.Run(ctx, transport.Cmd(args...).WithDir(m.boxDir))
	if err != nil {
		return fmt.Errorf("failed to start containers: %w", err)
	}

	return nil
}

// Down stops and removes the group. Nothing running is success.
func (m *Manager) Down(ctx context.Context) error {
	args := append(m.base(), "down")

	_, err := m.runner.Run(ctx, transport.Cmd(args...).WithDir(m.boxDir))
	if err != nil {
		return fmt.Errorf("failed to stop containers: %w", err)
	}

	return nil
}

// Topology returns the running hosts ordered by IP and, when withSeed is set, the seed.
func (m *Manager) Topology(ctx context.Context, withSeed bool) (v1alpha1.ClusterTopology, error) {
	topology := v1alpha1.ClusterTopology{Hosts: []v1alpha1.NodeRef{}}

	containers, err := m.list(ctx, "")
	if err != nil {
		return topology, err
	}

	for _, ctr := range containers {
		role, ok := m.role(ctr)
		if !ok || (role == v1alpha1.RoleSeed && !withSeed) {
			continue
		}

		node, err := m.nodeRef(ctx, ctr, role)
		if err != nil {
			return topology, err
		}

		if role == v1alpha1.RoleSeed {
			topology.Seed = &node

			continue
		}

		topology.Hosts = append(topology.Hosts, node)
	}

	slices.SortStableFunc(topology.Hosts, compareByIP)

	return topology, nil
}

// Container returns the ID of the running container of service with compose index (1-based).
func (m *Manager) Container(ctx context.Context, service string, index int) (string, error) {
	containers, err := m.list(ctx, service)
	if err != nil {
		return "", err
	}

	for _, ctr := range containers {
		if ctr.Labels[LabelContainerNumber] == strconv.Itoa(index) {
			return ctr.ID, nil
		}
	}

	return "", fmt.Errorf("%w: %s #%d in project %s", ErrContainerNotFound, service, index, m.opts.Project)
}

// Seed returns the ID of the seed container.
func (m *Manager) Seed(ctx context.Context) (string, error) {
	id, err := m.Container(ctx, m.opts.SeedService, 1)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoSeed, err)
	}

	return id, nil
}

// Host returns the ID of host container index (1-based).
func (m *Manager) Host(ctx context.Context, index int) (string, error) {
	return m.Container(ctx, m.opts.HostService, index)
}

func (m *Manager) base(files ...string) []string {
	args := []string{"docker", "compose", "-p", m.opts.Project}
	for _, file := range files {
		args = append(args, "-f", file)
	}

	return args
}

func (m *Manager) list(ctx context.Context, service string) ([]container.Summary, error) {
	args := filters.NewArgs(
		filters.Arg("label", LabelProject+"="+m.opts.Project),
		filters.Arg("status", "running"),
	)
	if service != "" {
		args.Add("label", LabelService+"="+service)
	}

	containers, err := m.client.ContainerList(ctx, container.ListOptions{Filters: args})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}

	return containers, nil
}

func (m *Manager) role(ctr container.Summary) (v1alpha1.NodeRole, bool) {
	switch ctr.Labels[LabelService] {
	case m.opts.SeedService:
		return v1alpha1.RoleSeed, true
	case m.opts.HostService:
		return v1alpha1.RoleHost, true
	default:
		return "", false
	}
}

func (m *Manager) nodeRef(ctx context.Context, ctr container.Summary, role v1alpha1.NodeRole) (v1alpha1.NodeRef, error) {
	inspect, err := m.client.ContainerInspect(ctx, ctr.ID)
	if err != nil {
		return v1alpha1.NodeRef{}, fmt.Errorf("failed to inspect container %s: %w", ctr.ID, err)
	}

	ip, err := docker.ContainerIP(inspect)
	if err != nil {
		return v1alpha1.NodeRef{}, fmt.Errorf("failed to resolve address of %s: %w", containerName(ctr), err)
	}

	index, _ := strconv.Atoi(ctr.Labels[LabelContainerNumber])

	return v1alpha1.NodeRef{
		ContainerName: containerName(ctr),
		IP:            ip,
		Hostname:      docker.ContainerHostname(inspect),
		Role:          role,
		Index:         index,
	}, nil
}

func containerName(ctr container.Summary) string {
	if len(ctr.Names) == 0 {
		return ctr.ID
	}

	return strings.TrimPrefix(ctr.Names[0], "/")
}

// compareByIP orders nodes numerically by address; unparsable addresses sort last by text.
func compareByIP(a, b v1alpha1.NodeRef) int {
	addrA, errA := netip.ParseAddr(a.IP)
	addrB, errB := netip.ParseAddr(b.IP)

	switch {
	case errA == nil && errB == nil:
		return addrA.Compare(addrB)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return strings.Compare(a.IP, b.IP)
	}
}
