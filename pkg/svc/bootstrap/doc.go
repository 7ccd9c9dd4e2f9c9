// Package bootstrap builds the command lines the seed runs to bring up the
// storage cluster: the `cephadm bootstrap` invocation with its fixed flag set,
// the `cephadm shell` wrapper for administrative commands and the environment
// the bootstrap tool reads.
package bootstrap
