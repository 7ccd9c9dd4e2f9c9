package docker_test

import (
	"testing"

	"github.com/devantler-tech/box/pkg/client/docker"
	"github.com/docker/docker/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDockerClient(t *testing.T) {
	t.Parallel()

	dockerClient, err := docker.GetDockerClient()
	if err != nil {
		assert.Nil(t, dockerClient)

		return
	}

	require.NotNil(t, dockerClient)
	require.NoError(t, dockerClient.Close())
}

func TestGetDockerClientAppliesOptions(t *testing.T) {
	t.Parallel()

	dockerClient, err := docker.GetDockerClient(client.WithHost("tcp://127.0.0.1:2375"))

	require.NoError(t, err)
	assert.Equal(t, "tcp://127.0.0.1:2375", dockerClient.DaemonHost())
	require.NoError(t, dockerClient.Close())
}

func TestGetDockerClientInvalidEnv(t *testing.T) {
	t.Setenv("DOCKER_HOST", "://")
	t.Setenv("DOCKER_TLS_VERIFY", "")
	t.Setenv("DOCKER_CERT_PATH", "")

	dockerClient, err := docker.GetDockerClient()

	require.ErrorContains(t, err, "failed to create Docker client")
	assert.Nil(t, dockerClient)
}
