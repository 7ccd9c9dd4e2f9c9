// Package transport runs commands on the three kinds of targets box talks to:
// the local host, a container of the box topology and a host node reached over SSH.
// All of them capture stdout/stderr and turn a non-zero exit into an *ExitError.
package transport
