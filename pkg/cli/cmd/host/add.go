package host

import (
	"github.com/devantler-tech/box/pkg/apis/box/v1alpha1"
	"github.com/devantler-tech/box/pkg/cli/helpers"
	"github.com/devantler-tech/box/pkg/di"
	"github.com/devantler-tech/box/pkg/svc/orchestrator"
	"github.com/spf13/cobra"
)

// NewAddCmd creates the add command.
func NewAddCmd(runtime *di.Runtime) *cobra.Command {
	return &cobra.Command{
		Use:          "add",
		Short:        "Add every host to the cluster",
		Long:         `Register every running host container with the cluster's orchestrator, by hostname and IP.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, runtime, helpers.RunOptions{}, helpers.WithOrchestrator(
				func(cmd *cobra.Command, orch *orchestrator.Orchestrator, _ *v1alpha1.Config) error {
					return orch.AddHosts(cmd.Context())
				}))
		},
	}
}
