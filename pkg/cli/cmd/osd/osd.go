// Package osd holds the `box osd` commands.
package osd

import (
	"github.com/devantler-tech/box/pkg/di"
	"github.com/spf13/cobra"
)

// NewOSDCmd creates the osd command and its subcommands.
func NewOSDCmd(runtime *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "osd",
		Short:        "Manage loop-back volumes and OSDs",
		Long:         `Create the loop-back volumes OSDs live on and deploy OSDs on them.`,
		Args:         cobra.NoArgs,
		RunE:         func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
		SilenceUsage: true,
	}

	cmd.AddCommand(NewCreateLoopCmd(runtime))
	cmd.AddCommand(NewDeployCmd(runtime))

	return cmd
}
