package docker

import (
	"fmt"

	"github.com/docker/docker/client"
)

// GetDockerClient creates a Docker client from DOCKER_HOST and friends,
// negotiating the API version with the daemon. opts are applied last.
func GetDockerClient(opts ...client.Opt) (*client.Client, error) {
	dockerClient, err := client.NewClientWithOpts(
		append([]client.Opt{client.FromEnv, client.WithAPIVersionNegotiation()}, opts...)...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}

	return dockerClient, nil
}
