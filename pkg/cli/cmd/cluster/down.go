package cluster

import (
	"github.com/devantler-tech/box/pkg/apis/box/v1alpha1"
	"github.com/devantler-tech/box/pkg/cli/helpers"
	"github.com/devantler-tech/box/pkg/di"
	"github.com/devantler-tech/box/pkg/svc/orchestrator"
	"github.com/devantler-tech/box/pkg/utils/notify"
	"github.com/spf13/cobra"
)

// NewDownCmd creates the down command.
func NewDownCmd(runtime *di.Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Stop the cluster and remove its storage",
		Long: `Stop and remove the cluster's containers, then remove the volume group,
the loop image and the image archive. Nothing running is not an error.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, runtime, helpers.RunOptions{}, helpers.WithOrchestrator(
				func(cmd *cobra.Command, orch *orchestrator.Orchestrator, _ *v1alpha1.Config) error {
					cmd.Println()
					notify.Titlef(cmd.OutOrStdout(), "🗑️", "Stop cluster...")

					err := orch.Down(cmd.Context())
					if err != nil {
						return err
					}

					notify.Successf(cmd.OutOrStdout(), "cluster stopped")

					return nil
				}))
		},
	}
}
