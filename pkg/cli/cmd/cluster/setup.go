package cluster

import (
	"github.com/devantler-tech/box/pkg/apis/box/v1alpha1"
	"github.com/devantler-tech/box/pkg/cli/helpers"
	"github.com/devantler-tech/box/pkg/di"
	"github.com/devantler-tech/box/pkg/svc/orchestrator"
	"github.com/devantler-tech/box/pkg/utils/notify"
	"github.com/spf13/cobra"
)

// NewSetupCmd creates the setup command.
func NewSetupCmd(runtime *di.Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Build the cluster images",
		Long: `Build the base image, save its archive for the seed to load, and build the
box image. Images that already exist are kept.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, runtime, helpers.RunOptions{}, helpers.WithOrchestrator(
				func(cmd *cobra.Command, orch *orchestrator.Orchestrator, _ *v1alpha1.Config) error {
					cmd.Println()
					notify.Titlef(cmd.OutOrStdout(), "🛠️", "Set up images...")

					err := orch.Setup(cmd.Context())
					if err != nil {
						return err
					}

					notify.Successf(cmd.OutOrStdout(), "images ready")

					return nil
				}))
		},
	}
}
