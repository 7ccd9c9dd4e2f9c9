// Package cli provides the command tree and the helpers it is wired with.
//
//   - cli/cmd: the cobra commands
//   - cli/helpers: global flags, config loading and runtime invocation
//   - cli/parallel: bounded parallel task execution
//   - cli/ui/errorhandler: cobra execution with normalized errors
package cli
