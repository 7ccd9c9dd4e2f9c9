package cluster

import (
	"github.com/devantler-tech/box/pkg/apis/box/v1alpha1"
	"github.com/devantler-tech/box/pkg/cli/helpers"
	"github.com/devantler-tech/box/pkg/di"
	"github.com/devantler-tech/box/pkg/svc/orchestrator"
	"github.com/devantler-tech/box/pkg/utils/notify"
	"github.com/spf13/cobra"
)

// NewCleanupCmd creates the cleanup command.
func NewCleanupCmd(runtime *di.Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Remove the cluster's storage and image archive",
		Long: `Remove the volume group, its loop device and loop image, and the base image
archive. Containers are left alone; use 'box cluster down' to stop them too.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, runtime, helpers.RunOptions{}, helpers.WithOrchestrator(
				func(cmd *cobra.Command, orch *orchestrator.Orchestrator, _ *v1alpha1.Config) error {
					cmd.Println()
					notify.Titlef(cmd.OutOrStdout(), "🧹", "Clean up...")

					err := orch.Cleanup(cmd.Context())
					if err != nil {
						return err
					}

					notify.Successf(cmd.OutOrStdout(), "storage removed")

					return nil
				}))
		},
	}
}
