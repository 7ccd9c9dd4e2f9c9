package cmd

// NewRootCmdWithRuntime exports newRootCmd for tests.
var NewRootCmdWithRuntime = newRootCmd
