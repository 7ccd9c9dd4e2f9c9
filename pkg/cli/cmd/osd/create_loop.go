package osd

import (
	"fmt"
	"strings"

	"github.com/devantler-tech/box/pkg/apis/box/v1alpha1"
	"github.com/devantler-tech/box/pkg/cli/helpers"
	"github.com/devantler-tech/box/pkg/di"
	"github.com/devantler-tech/box/pkg/svc/orchestrator"
	"github.com/devantler-tech/box/pkg/utils/notify"
	"github.com/spf13/cobra"
)

const createLoopLongDesc = `Create a loop-back volume group with one logical volume per OSD.

A previous volume group of the same name is removed first. Runs outside the
seed and needs root or password-less sudo.

Examples:
  box osd create-loop --osds 5`

// NewCreateLoopCmd creates the create-loop command.
func NewCreateLoopCmd(runtime *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "create-loop",
		Short:        "Create the loop-back volumes",
		Long:         createLoopLongDesc,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	cmd.Flags().Int(flagOSDs, v1alpha1.NewConfig().Cluster.OSDs, "Number of logical volumes")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		opts := helpers.RunOptions{Bindings: helpers.Bindings{flagOSDs: "cluster.osds"}}

		return helpers.Run(cmd, runtime, opts, helpers.WithOrchestrator(
			func(cmd *cobra.Command, orch *orchestrator.Orchestrator, cfg *v1alpha1.Config) error {
				cmd.Println()
				notify.Titlef(cmd.OutOrStdout(), "💽", "Create loop-back volumes...")

				set, err := orch.CreateLoop(cmd.Context(), cfg.Cluster.OSDs)
				if err != nil {
					return fmt.Errorf("failed to create volumes: %w", err)
				}

				notify.Successf(cmd.OutOrStdout(), "created %d volumes in %s: %s",
					set.Count(), set.VolumeGroup, strings.Join(set.LogicalVolumes, ", "))

				return nil
			}))
	}

	return cmd
}
