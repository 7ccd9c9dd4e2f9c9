package cluster

import (
	"github.com/devantler-tech/box/pkg/apis/box/v1alpha1"
	"github.com/devantler-tech/box/pkg/cli/helpers"
	"github.com/devantler-tech/box/pkg/di"
	"github.com/devantler-tech/box/pkg/svc/orchestrator"
	"github.com/spf13/cobra"
)

// NewShellCmd creates the sh command.
func NewShellCmd(runtime *di.Runtime) *cobra.Command {
	return &cobra.Command{
		Use:          "sh",
		Aliases:      []string{"shell"},
		Short:        "Open a shell in the seed",
		Long:         `Attach the terminal to an interactive bash session in the seed container.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, runtime, helpers.RunOptions{Quiet: true}, helpers.WithOrchestrator(
				func(cmd *cobra.Command, orch *orchestrator.Orchestrator, _ *v1alpha1.Config) error {
					return orch.Shell(cmd.Context())
				}))
		},
	}
}
