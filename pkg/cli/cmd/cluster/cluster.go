// Package cluster holds the `box cluster` commands: the lifecycle of the
// simulated cluster as a whole.
package cluster

import (
	"github.com/devantler-tech/box/pkg/di"
	"github.com/spf13/cobra"
)

// NewClusterCmd creates the cluster command and its subcommands.
func NewClusterCmd(runtime *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Manage the simulated cluster",
		Long: `Manage the lifecycle of a cluster simulated with one seed container and ` +
			`a number of host containers.`,
		Args:         cobra.NoArgs,
		RunE:         func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
		SilenceUsage: true,
	}

	cmd.AddCommand(NewSetupCmd(runtime))
	cmd.AddCommand(NewStartCmd(runtime))
	cmd.AddCommand(NewBootstrapCmd(runtime))
	cmd.AddCommand(NewListCmd(runtime))
	cmd.AddCommand(NewShellCmd(runtime))
	cmd.AddCommand(NewDownCmd(runtime))
	cmd.AddCommand(NewCleanupCmd(runtime))

	return cmd
}
