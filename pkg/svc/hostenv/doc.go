// Package hostenv probes and prepares the machine box runs on: whether the
// process runs inside the seed container, which cgroup hierarchy the host
// uses and the kernel and network settings the container group depends on.
package hostenv
