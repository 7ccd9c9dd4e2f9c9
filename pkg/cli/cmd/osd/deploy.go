package osd

import (
	"errors"
	"fmt"

	"github.com/devantler-tech/box/pkg/apis/box/v1alpha1"
	"github.com/devantler-tech/box/pkg/cli/helpers"
	"github.com/devantler-tech/box/pkg/di"
	"github.com/devantler-tech/box/pkg/svc/orchestrator"
	"github.com/devantler-tech/box/pkg/utils/notify"
	"github.com/spf13/cobra"
)

const (
	flagOSDs     = "osds"
	flagVG       = "vg"
	flagData     = "data"
	flagHostname = "hostname"
)

// ErrDataWithoutHostname is returned when --data is given without --hostname.
var ErrDataWithoutHostname = errors.New("--data requires --hostname")

const deployLongDesc = `Deploy OSDs.

Without --data, one OSD is deployed on every logical volume of --vg, the
volumes assigned to the cluster's hosts round-robin. With --data and
--hostname, a single OSD is deployed on that volume or device of that host.
Works from outside the seed and from a shell inside it.

Examples:
  # One OSD per volume of the default volume group
  box osd deploy

  # A single OSD
  box osd deploy --hostname host1 --data vg1/lv0`

// NewDeployCmd creates the deploy command.
func NewDeployCmd(runtime *di.Runtime) *cobra.Command {
	var data, hostname string

	cmd := &cobra.Command{
		Use:          "deploy",
		Short:        "Deploy OSDs on the loop-back volumes",
		Long:         deployLongDesc,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	flags := cmd.Flags()
	flags.String(flagVG, v1alpha1.NewConfig().Storage.VolumeGroup, "Volume group whose logical volumes get an OSD each")
	flags.StringVar(&data, flagData, "", "Single volume (vg/lv) or device to deploy one OSD on")
	flags.StringVar(&hostname, flagHostname, "", "Host of the single OSD")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		if data != "" && hostname == "" {
			return ErrDataWithoutHostname
		}

		opts := helpers.RunOptions{Bindings: helpers.Bindings{flagVG: "storage.volume-group"}}

		return helpers.Run(cmd, runtime, opts, helpers.WithOrchestrator(
			func(cmd *cobra.Command, orch *orchestrator.Orchestrator, cfg *v1alpha1.Config) error {
				cmd.Println()
				notify.Titlef(cmd.OutOrStdout(), "💾", "Deploy OSDs...")

				var err error
				if data != "" {
					err = orch.DeployOSD(cmd.Context(), hostname, data)
				} else {
					err = orch.DeployOSDs(cmd.Context(), cfg.Storage.VolumeGroup)
				}

				if err != nil {
					return fmt.Errorf("failed to deploy osds: %w", err)
				}

				notify.Successf(cmd.OutOrStdout(), "osds deployed")

				return nil
			}))
	}

	return cmd
}
