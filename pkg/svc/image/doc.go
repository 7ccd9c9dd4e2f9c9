// Package image ensures the images a box cluster runs on are present in the
// local Docker daemon.
//
// Two images are involved:
//   - the base cluster image, pulled from upstream, rebuilt from docker/ceph and
//     saved to a tar archive so the seed can load it into its own daemon
//   - the box image every container of the group runs, built from the box
//     directory's Dockerfile
//
// All operations use the Docker SDK and do not rely on the docker CLI.
package image
