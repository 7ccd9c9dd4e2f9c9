package host

import (
	"fmt"

	"github.com/devantler-tech/box/pkg/apis/box/v1alpha1"
	"github.com/devantler-tech/box/pkg/cli/helpers"
	"github.com/devantler-tech/box/pkg/di"
	"github.com/devantler-tech/box/pkg/svc/orchestrator"
	"github.com/spf13/cobra"
)

// NewExecCmd creates the exec command.
func NewExecCmd(runtime *di.Runtime) *cobra.Command {
	var index int

	cmd := &cobra.Command{
		Use:   "exec [flags] -- command [args...]",
		Short: "Run a command on a host over SSH",
		Long: `Run a command on host --index over SSH and print its output.

Examples:
  box host exec --index 2 -- lsblk`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, runtime, helpers.RunOptions{Quiet: true}, helpers.WithOrchestrator(
				func(cmd *cobra.Command, orch *orchestrator.Orchestrator, _ *v1alpha1.Config) error {
					res, err := orch.HostExec(cmd.Context(), index, args)
					if err != nil {
						return err
					}

					_, _ = fmt.Fprint(cmd.OutOrStdout(), res.Stdout)
					_, _ = fmt.Fprint(cmd.ErrOrStderr(), res.Stderr)

					return nil
				}))
		},
	}

	cmd.Flags().IntVar(&index, flagIndex, 1, "Host container index, starting at 1")

	return cmd
}
