// Package host holds the `box host` commands, run against the host containers.
package host

import (
	"github.com/devantler-tech/box/pkg/di"
	"github.com/spf13/cobra"
)

const flagIndex = "index"

// NewHostCmd creates the host command and its subcommands.
func NewHostCmd(runtime *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "host",
		Short: "Manage the host containers",
		Long: `Prepare the host containers and join them to the cluster. Hosts are ` +
			`addressed by their 1-based container index.`,
		Args:         cobra.NoArgs,
		RunE:         func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
		SilenceUsage: true,
	}

	cmd.AddCommand(NewSetupSSHCmd(runtime))
	cmd.AddCommand(NewCopyKeyCmd(runtime))
	cmd.AddCommand(NewAddCmd(runtime))
	cmd.AddCommand(NewExecCmd(runtime))

	return cmd
}
