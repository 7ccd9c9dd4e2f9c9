package docker

import (
	"errors"
	"fmt"
	"sort"

	"github.com/docker/docker/api/types/container"
)

// Errors for container IP resolution.
var (
	// ErrNoNetworkSettings is returned when a container has no network configuration.
	ErrNoNetworkSettings = errors.New("container has no network settings")
	// ErrNoIPAddress is returned when a container has no IP address on any network.
	ErrNoIPAddress = errors.New("container has no IP address")
)

// ContainerIP returns the container's IP address on the first of its networks (by name)
// that has one assigned. Box containers live on a single compose network.
func ContainerIP(inspect container.InspectResponse) (string, error) {
	name := inspectName(inspect)

	if inspect.NetworkSettings == nil || len(inspect.NetworkSettings.Networks) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoNetworkSettings, name)
	}

	networkNames := make([]string, 0, len(inspect.NetworkSettings.Networks))
	for networkName := range inspect.NetworkSettings.Networks {
		networkNames = append(networkNames, networkName)
	}

	sort.Strings(networkNames)

	for _, networkName := range networkNames {
		endpoint := inspect.NetworkSettings.Networks[networkName]
		if endpoint != nil && endpoint.IPAddress != "" {
			return endpoint.IPAddress, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrNoIPAddress, name)
}

// ContainerHostname returns the hostname configured for the container.
func ContainerHostname(inspect container.InspectResponse) string {
	if inspect.Config == nil {
		return ""
	}

	return inspect.Config.Hostname
}

func inspectName(inspect container.InspectResponse) string {
	if inspect.ContainerJSONBase == nil {
		return ""
	}

	return inspect.Name
}
