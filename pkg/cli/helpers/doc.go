// Package helpers holds what every box command shares: the global flags,
// configuration loading with flag bindings, and invoking the DI runtime with
// the loaded configuration and the command's streams.
package helpers
