// Package svc provides the services box is built from.
//
// Subpackages:
//   - orchestrator: the cluster lifecycle, outside and inside the seed
//   - image: base and box image build, save and load
//   - storage: the loop-back volume group OSDs live on
//   - compose: the docker compose project and its topology
//   - hostenv: host capabilities (cgroups, forwarding, loop module)
//   - bootstrap: the cephadm command line and the seed environment
//   - transport: running commands locally, in containers and over SSH
//   - metrics: step counters and durations
package svc
