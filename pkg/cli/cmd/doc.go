// Package cmd provides the command-line interface for box.
//
// The root command delegates to subcommand packages:
//   - cluster: setup, start, bootstrap, list, sh, down and cleanup
//   - osd: loop-back volume creation and OSD deployment
//   - host: SSH preparation, key distribution and host registration
package cmd
