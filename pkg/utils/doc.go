// Package utils holds small helpers shared by the box commands:
//
//   - envvar: ${VAR} expansion in configuration values
//   - notify: user-facing status lines with symbols and colors
//   - timer: elapsed time of a command and its current stage
package utils
