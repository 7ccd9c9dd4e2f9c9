package host

import (
	"github.com/devantler-tech/box/pkg/apis/box/v1alpha1"
	"github.com/devantler-tech/box/pkg/cli/helpers"
	"github.com/devantler-tech/box/pkg/di"
	"github.com/devantler-tech/box/pkg/svc/orchestrator"
	"github.com/devantler-tech/box/pkg/utils/notify"
	"github.com/spf13/cobra"
)

// NewSetupSSHCmd creates the setup-ssh command.
func NewSetupSSHCmd(runtime *di.Runtime) *cobra.Command {
	var index int

	cmd := &cobra.Command{
		Use:   "setup-ssh",
		Short: "Enable root password login on a host",
		Long: `Generate the host keys, set the root password and allow root password login
in sshd on host --index, then restart sshd.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, runtime, helpers.RunOptions{}, helpers.WithOrchestrator(
				func(cmd *cobra.Command, orch *orchestrator.Orchestrator, _ *v1alpha1.Config) error {
					err := orch.SetupSSH(cmd.Context(), index)
					if err != nil {
						return err
					}

					notify.Successf(cmd.OutOrStdout(), "ssh ready on host %d", index)

					return nil
				}))
		},
	}

	cmd.Flags().IntVar(&index, flagIndex, 1, "Host container index, starting at 1")

	return cmd
}
