// Package docker wraps the Docker Engine SDK client: construction from the environment,
// the narrow API surfaces box depends on, and helpers to read container metadata.
package docker
