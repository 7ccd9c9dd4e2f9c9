package host

import (
	"github.com/devantler-tech/box/pkg/apis/box/v1alpha1"
	"github.com/devantler-tech/box/pkg/cli/helpers"
	"github.com/devantler-tech/box/pkg/di"
	"github.com/devantler-tech/box/pkg/svc/orchestrator"
	"github.com/devantler-tech/box/pkg/utils/notify"
	"github.com/spf13/cobra"
)

// NewCopyKeyCmd creates the copy-key command.
func NewCopyKeyCmd(runtime *di.Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "copy-key",
		Short: "Authorize the cluster key on every host",
		Long: `Read the cluster's public SSH key from the seed and append it to root's
authorized keys on every host container.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, runtime, helpers.RunOptions{}, helpers.WithOrchestrator(
				func(cmd *cobra.Command, orch *orchestrator.Orchestrator, _ *v1alpha1.Config) error {
					err := orch.CopyClusterKey(cmd.Context())
					if err != nil {
						return err
					}

					notify.Successf(cmd.OutOrStdout(), "cluster key copied")

					return nil
				}))
		},
	}
}
