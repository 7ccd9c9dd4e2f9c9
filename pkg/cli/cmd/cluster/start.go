package cluster

import (
	"fmt"

	"github.com/devantler-tech/box/pkg/apis/box/v1alpha1"
	"github.com/devantler-tech/box/pkg/cli/helpers"
	"github.com/devantler-tech/box/pkg/di"
	"github.com/devantler-tech/box/pkg/svc/orchestrator"
	"github.com/devantler-tech/box/pkg/utils/notify"
	"github.com/spf13/cobra"
)

const startLongDesc = `Start a simulated cluster.

Ensures the images exist, creates the loop-back volumes, brings up the seed
and --hosts host containers, enables root SSH on the hosts and bootstraps the
first monitor inside the seed. With --expanded the hosts are also added to the
cluster and one OSD is deployed per volume.

Start is destructive: containers and volumes of a previous cluster are
removed first, without confirmation.

Examples:
  # Seed plus two hosts, three volumes, nothing deployed on them
  box cluster start

  # Add the hosts and deploy an OSD on each of five volumes
  box cluster start --expanded --osds 5`

// NewStartCmd creates the start command.
func NewStartCmd(runtime *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "start",
		Short:        "Start a simulated cluster (destructive)",
		Long:         startLongDesc,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	defaults := v1alpha1.NewConfig().Cluster

	flags := cmd.Flags()
	flags.Int(flagOSDs, defaults.OSDs, "Number of loop-back volumes, one OSD each")
	flags.Int(flagHosts, defaults.Hosts, "Number of host containers besides the seed")
	flags.Bool(flagSkipDeployOSDs, false, "Create volumes but deploy no OSDs on them")
	flags.Bool(flagSkipCreateLoop, false, "Do not create the loop-back volumes")
	flags.Bool(flagSkipMonitoringStack, false, "Bootstrap without the monitoring stack")
	flags.Bool(flagSkipDashboard, false, "Bootstrap without the dashboard")
	flags.Bool(flagExpanded, false, "Add the hosts to the cluster and deploy the OSDs")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return helpers.Run(cmd, runtime, helpers.RunOptions{Bindings: startBindings()}, runStart)
	}

	return cmd
}

func runStart(cmd *cobra.Command, injector di.Injector, cfg *v1alpha1.Config) error {
	opts := cfg.StartOptions()

	// Reject impossible combinations before anything is torn down.
	err := orchestrator.Validate(opts)
	if err != nil {
		return err
	}

	tmr, err := di.ResolveTimer(injector)
	if err != nil {
		return err
	}

	tmr.Start()

	orch, err := di.ResolveOrchestrator(injector)
	if err != nil {
		return err
	}

	cmd.Println()
	notify.Titlef(cmd.OutOrStdout(), "🚀", "Start cluster...")

	err = orch.Start(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("failed to start cluster: %w", err)
	}

	notify.SuccessWithTimerf(cmd.OutOrStdout(), tmr,
		"cluster started with %d hosts and %d osds", opts.Hosts, opts.OSDs)

	return nil
}
