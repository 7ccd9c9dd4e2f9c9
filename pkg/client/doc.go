// Package client wraps the SDKs box talks to. Only the Docker Engine is used
// through an SDK; docker compose and the LVM tools are driven as commands.
package client
