// Package compose drives the box container group: `docker compose` for
// lifecycle (up, scale, down) and the Docker Engine API for discovering the
// running containers, their addresses and hostnames.
package compose
