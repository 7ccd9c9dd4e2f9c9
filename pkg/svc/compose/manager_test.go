package compose_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/devantler-tech/box/pkg/apis/box/v1alpha1"
	"github.com/devantler-tech/box/pkg/client/docker"
	"github.com/devantler-tech/box/pkg/svc/compose"
	"github.com/devantler-tech/box/pkg/svc/transport"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/network"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errDaemonDown = errors.New("cannot connect to the docker daemon")

func newManager(t *testing.T) (*compose.Manager, *docker.MockAPI, *transport.Fake) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := v1alpha1.NewConfig()
	cfg.BoxDir = "/src/cephadm/box"

	client := docker.NewMockAPI(t)
	local := transport.NewFake("local")

	return compose.NewManager(client, local, cfg, logger), client, local
}

func summary(id, service string, number string) container.Summary {
	return container.Summary{
		ID:    id,
		Names: []string{"/box-" + service + "-" + number},
		Labels: map[string]string{
			compose.LabelProject:         "box",
			compose.LabelService:         service,
			compose.LabelContainerNumber: number,
		},
	}
}

func inspect(name, hostname, ip string) container.InspectResponse {
	return container.InspectResponse{
		ContainerJSONBase: &container.ContainerJSONBase{Name: "/" + name},
		Config:            &container.Config{Hostname: hostname},
		NetworkSettings: &container.NetworkSettings{
			Networks: map[string]*network.EndpointSettings{
				"box_default": {IPAddress: ip},
			},
		},
	}
}

func TestUp(t *testing.T) {
	t.Parallel()

	manager, _, local := newManager(t)

	err := manager.Up(context.Background(), 3, compose.Files(false))

	require.NoError(t, err)
	assert.Equal(t, []string{
		"docker compose -p box -f docker-compose.yml -f docker-compose.cgroup1.yml up --scale hosts=3 -d",
	}, local.Lines())
	assert.Equal(t, "/src/cephadm/box", local.Calls()[0].Command.Dir)
}

func TestUpFailure(t *testing.T) {
	t.Parallel()

	manager, _, local := newManager(t)
	local.Fail("up", 1, "no such image: cephadm-box:latest")

	err := manager.Up(context.Background(), 1, compose.Files(true))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such image")
}

func TestDown(t *testing.T) {
	t.Parallel()

	manager, _, local := newManager(t)

	require.NoError(t, manager.Down(context.Background()))
	assert.Equal(t, []string{"docker compose -p box down"}, local.Lines())
}

func TestFiles(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"docker-compose.yml"}, compose.Files(true))
	assert.Equal(t, []string{"docker-compose.yml", "docker-compose.cgroup1.yml"}, compose.Files(false))
}

func TestTopologyOrdersHostsByIP(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	manager, client, _ := newManager(t)

	client.EXPECT().ContainerList(ctx, mock.Anything).Return([]container.Summary{
		summary("seed-id", "seed", "1"),
		summary("host1-id", "hosts", "1"),
		summary("host2-id", "hosts", "2"),
		{ID: "stray", Labels: map[string]string{compose.LabelService: "registry"}},
	}, nil)
	client.EXPECT().ContainerInspect(ctx, "seed-id").Return(inspect("box-seed-1", "seed", "172.18.0.2"), nil)
	client.EXPECT().ContainerInspect(ctx, "host1-id").Return(inspect("box-hosts-1", "7d2f1c", "172.18.0.10"), nil)
	client.EXPECT().ContainerInspect(ctx, "host2-id").Return(inspect("box-hosts-2", "9b0a44", "172.18.0.9"), nil)

	topology, err := manager.Topology(ctx, true)

	require.NoError(t, err)
	require.NotNil(t, topology.Seed)
	assert.Equal(t, v1alpha1.NodeRef{
		ContainerName: "box-seed-1", IP: "172.18.0.2", Hostname: "seed", Role: v1alpha1.RoleSeed, Index: 1,
	}, *topology.Seed)
	assert.Equal(t, []string{"172.18.0.9", "172.18.0.10"}, topology.HostIPs())
	assert.Equal(t, "box-hosts-2", topology.Hosts[0].ContainerName)
	assert.Len(t, topology.Nodes(), 3)
}

func TestTopologyWithoutSeed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	manager, client, _ := newManager(t)

	client.EXPECT().ContainerList(ctx, mock.Anything).Return([]container.Summary{
		summary("seed-id", "seed", "1"),
		summary("host1-id", "hosts", "1"),
	}, nil)
	client.EXPECT().ContainerInspect(ctx, "host1-id").Return(inspect("box-hosts-1", "7d2f1c", "172.18.0.3"), nil)

	topology, err := manager.Topology(ctx, false)

	require.NoError(t, err)
	assert.Nil(t, topology.Seed)
	assert.Len(t, topology.Hosts, 1)
}

func TestTopologyEmpty(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	manager, client, _ := newManager(t)

	client.EXPECT().ContainerList(ctx, mock.Anything).Return([]container.Summary{}, nil)

	topology, err := manager.Topology(ctx, true)

	require.NoError(t, err)
	assert.Empty(t, topology.Nodes())
}

func TestTopologyListError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	manager, client, _ := newManager(t)

	client.EXPECT().ContainerList(ctx, mock.Anything).Return(nil, errDaemonDown)

	_, err := manager.Topology(ctx, true)

	require.ErrorIs(t, err, errDaemonDown)
}

func TestContainerByIndex(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	manager, client, _ := newManager(t)

	client.EXPECT().ContainerList(ctx, mock.Anything).Return([]container.Summary{
		summary("host1-id", "hosts", "1"),
		summary("host2-id", "hosts", "2"),
	}, nil)

	id, err := manager.Host(ctx, 2)

	require.NoError(t, err)
	assert.Equal(t, "host2-id", id)
}

func TestSeedMissing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	manager, client, _ := newManager(t)

	client.EXPECT().ContainerList(ctx, mock.Anything).Return([]container.Summary{}, nil)

	_, err := manager.Seed(ctx)

	require.ErrorIs(t, err, compose.ErrNoSeed)
	require.ErrorIs(t, err, compose.ErrContainerNotFound)
}
